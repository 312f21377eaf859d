// Package objectdefs loads the mapping from object id to object
// definition: drawing rules, sync rules, occurrence limits, and
// colour-replacement rules for override-custom-objects. Definitions come
// from a text table (stock objects) augmented by the world INI's
// "custom object" sections.
package objectdefs

import (
	"fmt"
	"strings"

	"github.com/spindlymist/ksrender/internal/model"
)

// ObjectVariant is a closed enum of spritesheet variant selectors.
type ObjectVariant uint8

const (
	VariantNone ObjectVariant = iota
	VariantLeft
	VariantGlow
	VariantSpot
	VariantFloor
	VariantCircle
	VariantSquare
	VariantA
	VariantB
	VariantC
	VariantD
)

var variantNames = map[ObjectVariant]string{
	VariantNone:   "",
	VariantLeft:   "Left",
	VariantGlow:   "Glow",
	VariantSpot:   "Spot",
	VariantFloor:  "Floor",
	VariantCircle: "Circle",
	VariantSquare: "Square",
	VariantA:      "A",
	VariantB:      "B",
	VariantC:      "C",
	VariantD:      "D",
}

var variantByName = func() map[string]ObjectVariant {
	m := make(map[string]ObjectVariant, len(variantNames))
	for v, n := range variantNames {
		if n != "" {
			m[n] = v
		}
	}
	return m
}()

// String renders the variant's suffix form ("" for None).
func (v ObjectVariant) String() string { return variantNames[v] }

// ParseVariant parses a variant's display name ("" means VariantNone).
func ParseVariant(s string) (ObjectVariant, error) {
	if s == "" {
		return VariantNone, nil
	}
	v, ok := variantByName[s]
	if !ok {
		return 0, fmt.Errorf("objectdefs: unknown variant %q", s)
	}
	return v, nil
}

// ObjectId names a tile and an optional variant of its artwork.
type ObjectId struct {
	Tile    model.Tile
	Variant ObjectVariant
}

// WithVariant returns a copy of id with variant replaced.
func (id ObjectId) WithVariant(v ObjectVariant) ObjectId {
	id.Variant = v
	return id
}

// String renders "B-I" or "B-I V".
func (id ObjectId) String() string {
	base := fmt.Sprintf("%d-%d", id.Tile.Bank, id.Tile.Index)
	if id.Variant == VariantNone {
		return base
	}
	return base + " " + id.Variant.String()
}

// ParseObjectId parses "B-I" or "B-I V".
func ParseObjectId(s string) (ObjectId, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return ObjectId{}, fmt.Errorf("objectdefs: malformed object id %q", s)
	}
	parts := strings.SplitN(fields[0], "-", 2)
	if len(parts) != 2 {
		return ObjectId{}, fmt.Errorf("objectdefs: malformed object id %q", s)
	}
	bank, err := parseUint8(parts[0])
	if err != nil {
		return ObjectId{}, fmt.Errorf("objectdefs: bad bank in %q: %w", s, err)
	}
	index, err := parseUint8(parts[1])
	if err != nil {
		return ObjectId{}, fmt.Errorf("objectdefs: bad index in %q: %w", s, err)
	}
	variant := VariantNone
	if len(fields) == 2 {
		variant, err = ParseVariant(fields[1])
		if err != nil {
			return ObjectId{}, err
		}
	}
	return ObjectId{Tile: model.Tile{Bank: bank, Index: index}, Variant: variant}, nil
}

func parseUint8(s string) (uint8, error) {
	var v int
	_, err := fmt.Sscanf(s, "%d", &v)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > 255 {
		return 0, fmt.Errorf("value %d out of byte range", v)
	}
	return uint8(v), nil
}

// SyncTarget is who an object's animation time is synchronized to.
type SyncTarget uint8

const (
	SyncNone SyncTarget = iota
	SyncScreen
	SyncGroup
)

// BlendMode selects how an object composites onto the canvas.
type BlendMode uint8

const (
	BlendOver BlendMode = iota
	BlendAdd
	BlendSub
)

// LaserPhase is a group-wide shared laser colour.
type LaserPhase uint8

const (
	PhaseRed LaserPhase = iota
	PhaseGreen
)

// U8Range is a half-open range of bytes, [Start, End).
type U8Range struct{ Start, End uint8 }

// U32Range is a half-open range of uint32, [Start, End).
type U32Range struct{ Start, End uint32 }

// Point is a signed pixel offset.
type Point struct{ X, Y int64 }

// Size is a pixel width/height.
type Size struct{ W, H uint32 }

// DrawParams controls how an object is composited.
type DrawParams struct {
	SyncTo      SyncTarget
	BlendMode   BlendMode
	AlphaRange  *U8Range
	FrameSize   Size // defaults to 24x24 when zero
	FrameRange  *U32Range
	Offset      Point
	Flip        bool
	FlipVariant *ObjectVariant
}

// SyncParams controls cross-screen group formation and laser colour gating.
type SyncParams struct {
	SyncTo      SyncTarget
	SyncNorth   []model.Tile
	SyncSouth   []model.Tile
	SyncEast    []model.Tile
	SyncWest    []model.Tile
	LaserPhase  *LaserPhase
}

// LimitKind selects how occurrences of an object on one screen are
// downselected.
type LimitKind uint8

const (
	LimitNone LimitKind = iota
	LimitFirst
	LimitRandom
	LimitLogNPlusOne
)

// Limit is the occurrence-downselection rule for one object kind.
type Limit struct {
	Kind LimitKind
	N    int // meaningful for LimitFirst and LimitRandom
}

// OffsetCombine controls how an override-custom-object's own offset
// combines with the original object's offset.
type OffsetCombine uint8

const (
	OffsetAdd OffsetCombine = iota
	OffsetReplace
)

// Kind distinguishes stock objects from custom and override-custom objects.
type Kind uint8

const (
	KindObject Kind = iota
	KindCustomObject
	KindOverrideObject
)

// ColorPair is one (old, new) RGB colour-replacement rule.
type ColorPair struct {
	Old, New [3]uint8
}

// ObjectDef is the full definition of one object id's appearance and
// behaviour.
type ObjectDef struct {
	Kind         Kind
	OriginalTile model.Tile // meaningful when Kind == KindOverrideObject
	Path         string
	EditorOnly   bool

	DrawParams DrawParams
	SyncParams SyncParams
	Limit      Limit

	OffsetCombine OffsetCombine
	OCOSupport    bool
	ReplaceColors []ColorPair
	ColorBase     *int32
	ColorOffsets  []int32
}

// ObjectDefs is the full loaded table plus the variant index populated at
// load time.
type ObjectDefs struct {
	defs     map[ObjectId]ObjectDef
	variants map[model.Tile][]ObjectVariant
}

// Get looks up the definition for id.
func (d *ObjectDefs) Get(id ObjectId) (ObjectDef, bool) {
	def, ok := d.defs[id]
	return def, ok
}

// VariantsOf returns the variants registered for a tile at load time.
func (d *ObjectDefs) VariantsOf(tile model.Tile) []ObjectVariant {
	return d.variants[tile]
}

// Len returns the number of loaded definitions.
func (d *ObjectDefs) Len() int { return len(d.defs) }
