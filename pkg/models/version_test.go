package models

import (
	"reflect"
	"testing"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		input string
		want  []VersionPart
	}{
		{"1.20.10", []VersionPart{{Value: 1}, {Value: 20}, {Value: 10}}},
		{"1", []VersionPart{{Value: 1}}},
		{"1.x.3", []VersionPart{{Value: 1}, {Malformed: true}, {Value: 3}}},
		{"", []VersionPart{{Value: 0}}},
		{"1..2", []VersionPart{{Value: 1}, {Value: 0}, {Value: 2}}},
		{"1.-2", []VersionPart{{Value: 1}, {Malformed: true}}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseVersion(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseVersion(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewVersionDescriptor(t *testing.T) {
	entry := ManifestEntry{
		Name:    "Minecraft 1.20.10",
		Link:    "https://example.com/mc-1.20.10.apk",
		Kind:    "Stable",
		Version: "1.20.10",
	}

	d := NewVersionDescriptor(entry)
	if d.Kind != KindStable {
		t.Errorf("Kind = %q, want %q", d.Kind, KindStable)
	}
	want := []VersionPart{{Value: 1}, {Value: 20}, {Value: 10}}
	if !reflect.DeepEqual(d.Version, want) {
		t.Errorf("Version = %v, want %v", d.Version, want)
	}

	// Deriving again from the same string gives the same parts
	again := NewVersionDescriptor(entry)
	if !reflect.DeepEqual(d, again) {
		t.Errorf("descriptor derivation is not idempotent: %v vs %v", d, again)
	}
	if FormatVersion(d.Version) != "1.20.10" {
		t.Errorf("FormatVersion() = %q", FormatVersion(d.Version))
	}
}

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"Stable":  KindStable,
		"Beta":    KindBeta,
		"Legacy":  KindLegacy,
		"stable":  KindUnknown,
		"Preview": KindUnknown,
		"":        KindUnknown,
	}
	for in, want := range tests {
		if got := ParseKind(in); got != want {
			t.Errorf("ParseKind(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHasMalformedVersion(t *testing.T) {
	ok := NewVersionDescriptor(ManifestEntry{Version: "1.2.3"})
	if ok.HasMalformedVersion() {
		t.Error("1.2.3 should not be malformed")
	}
	bad := NewVersionDescriptor(ManifestEntry{Version: "1.2.beta"})
	if !bad.HasMalformedVersion() {
		t.Error("1.2.beta should be malformed")
	}
	if FormatVersion(bad.Version) != "1.2.NaN" {
		t.Errorf("FormatVersion() = %q", FormatVersion(bad.Version))
	}
}
