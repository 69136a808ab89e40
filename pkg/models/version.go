package models

import (
	"strconv"
	"strings"
)

// Kind classifies a descriptor into one of the display groups
type Kind string

const (
	KindStable  Kind = "Stable"
	KindBeta    Kind = "Beta"
	KindLegacy  Kind = "Legacy"
	KindUnknown Kind = ""
)

// DisplayKinds lists the display groups in the order they are shown
var DisplayKinds = []Kind{KindStable, KindBeta, KindLegacy}

// ParseKind maps a manifest "tipo" value to a Kind.
// Matching is exact; anything else belongs to no group.
func ParseKind(s string) Kind {
	switch Kind(s) {
	case KindStable, KindBeta, KindLegacy:
		return Kind(s)
	default:
		return KindUnknown
	}
}

// String returns the display name of the kind
func (k Kind) String() string {
	if k == KindUnknown {
		return "Unknown"
	}
	return string(k)
}

// Manifest is the remote document listing every downloadable version.
// Field names are fixed by the manifest producer.
type Manifest struct {
	Versions []ManifestEntry `json:"versions"`
}

// ManifestEntry is one raw entry of the remote manifest
type ManifestEntry struct {
	Name    string `json:"nome"`
	Link    string `json:"link"`
	Kind    string `json:"tipo"`
	Version string `json:"versao"`
}

// VersionPart is one dotted component of a version string.
// A part that is not a non-negative integer is malformed.
type VersionPart struct {
	Value     int
	Malformed bool
}

// String renders the part, using "NaN" for malformed parts
func (p VersionPart) String() string {
	if p.Malformed {
		return "NaN"
	}
	return strconv.Itoa(p.Value)
}

// ParseVersion splits a dotted version string into its parts.
// The result is never empty. An empty component counts as 0, so
// "1..2" is 1.0.2 and "" is 0.
func ParseVersion(s string) []VersionPart {
	fields := strings.Split(s, ".")
	parts := make([]VersionPart, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			parts = append(parts, VersionPart{})
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			parts = append(parts, VersionPart{Malformed: true})
			continue
		}
		parts = append(parts, VersionPart{Value: n})
	}
	return parts
}

// FormatVersion joins parts back into dotted form
func FormatVersion(parts []VersionPart) string {
	strs := make([]string, len(parts))
	for i, p := range parts {
		strs[i] = p.String()
	}
	return strings.Join(strs, ".")
}

// VersionDescriptor represents one downloadable package
type VersionDescriptor struct {
	Name       string        `json:"name" yaml:"name"`
	Link       string        `json:"link" yaml:"link"`
	Kind       Kind          `json:"kind" yaml:"kind"`
	RawVersion string        `json:"version" yaml:"version"`
	Version    []VersionPart `json:"-" yaml:"-"`
}

// NewVersionDescriptor builds a descriptor from a manifest entry
func NewVersionDescriptor(entry ManifestEntry) VersionDescriptor {
	return VersionDescriptor{
		Name:       entry.Name,
		Link:       entry.Link,
		Kind:       ParseKind(entry.Kind),
		RawVersion: entry.Version,
		Version:    ParseVersion(entry.Version),
	}
}

// HasMalformedVersion reports whether any version part failed to parse
func (d VersionDescriptor) HasMalformedVersion() bool {
	for _, p := range d.Version {
		if p.Malformed {
			return true
		}
	}
	return false
}
