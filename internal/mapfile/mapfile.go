// Package mapfile loads a parsed level into the renderer's contractual
// model.ScreenData shape.
//
// The real Knytt Underground map file format is an external collaborator
// this core never parses (see spec.md's scope note) — only its parsed
// output matters to the renderer. ksrender therefore defines its own
// interchange format, a JSON document that serializes model.ScreenData
// directly, so the CLI has something concrete to read; a production
// deployment would swap this loader for one backed by the real binary
// format without touching anything downstream of ScreenMap.
package mapfile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spindlymist/ksrender/internal/model"
)

// document is the on-disk JSON shape: an object whose "screens" field holds
// a flat array of screens.
type document struct {
	Screens []model.ScreenData `json:"screens"`
}

// Load reads and decodes a JSON map document from path.
func Load(path string) ([]model.ScreenData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mapfile: reading %s: %w", path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("mapfile: parsing %s: %w", path, err)
	}
	if len(doc.Screens) == 0 {
		return nil, fmt.Errorf("mapfile: %s contains no screens", path)
	}
	return doc.Screens, nil
}
