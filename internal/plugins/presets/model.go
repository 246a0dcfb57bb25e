// Package presets ships ready-made calendar definitions loaded from YAML
// files on disk. A preset can be instantiated into a stored calendar.
package presets

import "github.com/keyxmakerx/almanac/internal/almanac"

// Preset is a named calendar template.
type Preset struct {
	// Slug is the file name without extension, used in URLs.
	Slug        string         `json:"slug" yaml:"-"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Config      almanac.Config `json:"config" yaml:"config"`
}
