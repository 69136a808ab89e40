package manifest

import (
	"sort"

	"github.com/huanfeng/mclauncher/pkg/models"
)

// Compare orders two parsed versions.
// It returns a positive number when a is newer, negative when b is newer
// and 0 when they tie. The first differing component decides; when one
// version is a prefix of the other the longer one is newer.
//
// A version with any malformed component is older than every well-formed
// version, and two malformed versions tie. This keeps the order total.
func Compare(a, b []models.VersionPart) int {
	badA, badB := malformed(a), malformed(b)
	switch {
	case badA && badB:
		return 0
	case badA:
		return -1
	case badB:
		return 1
	}

	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	for i := 0; i < n; i++ {
		if a[i].Value != b[i].Value {
			if a[i].Value > b[i].Value {
				return 1
			}
			return -1
		}
	}

	return len(a) - len(b)
}

func malformed(parts []models.VersionPart) bool {
	for _, p := range parts {
		if p.Malformed {
			return true
		}
	}
	return false
}

// SortDescending returns a copy of list ordered newest first.
// The sort is stable, so ties keep manifest order. Malformed versions
// end up last, in manifest order.
func SortDescending(list []models.VersionDescriptor) []models.VersionDescriptor {
	sorted := make([]models.VersionDescriptor, len(list))
	copy(sorted, list)

	sort.SliceStable(sorted, func(i, j int) bool {
		return Compare(sorted[i].Version, sorted[j].Version) > 0
	})

	return sorted
}

// FilterByKind returns the descriptors of one kind, keeping order
func FilterByKind(list []models.VersionDescriptor, kind models.Kind) []models.VersionDescriptor {
	var out []models.VersionDescriptor
	for _, d := range list {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// Group is one display bucket
type Group struct {
	Kind     models.Kind
	Versions []models.VersionDescriptor
}

// GroupByKind splits list into the display buckets.
// Descriptors of unknown kind are left out.
func GroupByKind(list []models.VersionDescriptor) []Group {
	groups := make([]Group, 0, len(models.DisplayKinds))
	for _, kind := range models.DisplayKinds {
		groups = append(groups, Group{
			Kind:     kind,
			Versions: FilterByKind(list, kind),
		})
	}
	return groups
}

// FindByName returns the first descriptor whose name matches exactly
func FindByName(list []models.VersionDescriptor, name string) (models.VersionDescriptor, bool) {
	for _, d := range list {
		if d.Name == name {
			return d, true
		}
	}
	return models.VersionDescriptor{}, false
}
