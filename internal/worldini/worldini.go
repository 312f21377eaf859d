// Package worldini adapts the world INI file (an external collaborator per
// SPEC_FULL.md — this core never parses INI syntax itself) into the small
// section/key lookup surface the renderer needs: per-screen overrides and
// custom-object registrations.
package worldini

import (
	"strings"

	iniv1 "gopkg.in/ini.v1"
)

// File is a parsed world INI document.
type File struct {
	raw *iniv1.File
}

// Load parses the world INI file at path.
func Load(path string) (*File, error) {
	raw, err := iniv1.LoadSources(iniv1.LoadOptions{
		Insensitive:         false,
		UnescapeValueSpaces: true,
	}, path)
	if err != nil {
		return nil, err
	}
	return &File{raw: raw}, nil
}

// Section is a single [section] of the INI file with case-sensitive key
// lookup. EqualFold compares a key's value, not its name, case-insensitively.
type Section struct {
	raw *iniv1.Section
}

// ScreenSection returns the "x{X}y{Y}" section for a screen, if present.
func (f *File) ScreenSection(x, y int32) (Section, bool) {
	name := ScreenSectionName(x, y)
	if !f.raw.HasSection(name) {
		return Section{}, false
	}
	return Section{raw: f.raw.Section(name)}, true
}

// ScreenSectionName builds the "x{X}y{Y}" section name for a screen.
func ScreenSectionName(x, y int32) string {
	return "x" + itoa(x) + "y" + itoa(y)
}

func itoa(v int32) string {
	neg := v < 0
	if neg {
		v = -v
	}
	digits := []byte{}
	if v == 0 {
		digits = append(digits, '0')
	}
	for v > 0 {
		digits = append([]byte{byte('0' + v%10)}, digits...)
		v /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}

// Get returns the raw string value of key, and whether it was present.
func (s Section) Get(key string) (string, bool) {
	if s.raw == nil || !s.raw.HasKey(key) {
		return "", false
	}
	return s.raw.Key(key).String(), true
}

// GetOr returns key's value, or def if absent.
func (s Section) GetOr(key, def string) string {
	v, ok := s.Get(key)
	if !ok {
		return def
	}
	return v
}

// EqualFold reports whether key's value case-insensitively equals want.
func (s Section) EqualFold(key, want string) bool {
	v, ok := s.Get(key)
	return ok && strings.EqualFold(v, want)
}

// CustomObjectSections returns every section whose name case-insensitively
// starts with "custom object ". The returned sections keep their full
// names; Suffix strips the prefix.
func (f *File) CustomObjectSections() []Section {
	const prefix = "custom object "
	var out []Section
	for _, sec := range f.raw.Sections() {
		name := sec.Name()
		if len(name) < len(prefix) {
			continue
		}
		if !strings.EqualFold(name[:len(prefix)], prefix) {
			continue
		}
		out = append(out, Section{raw: sec})
	}
	return out
}

// Name returns the section's raw name.
func (s Section) Name() string {
	if s.raw == nil {
		return ""
	}
	return s.raw.Name()
}

// Suffix returns the section name with the given case-insensitive prefix
// removed.
func (s Section) Suffix(prefix string) string {
	name := s.Name()
	if len(name) < len(prefix) {
		return name
	}
	return name[len(prefix):]
}
