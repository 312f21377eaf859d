package objectdefs

import (
	"fmt"
	"strconv"
	"strings"

	iniv1 "gopkg.in/ini.v1"

	"github.com/spindlymist/ksrender/internal/model"
	"github.com/spindlymist/ksrender/internal/worldini"
)

// LoadTable reads the text table of object definitions at path. Each
// section is named "B-I" or "B-I V" (an ObjectId's string form).
func LoadTable(path string) (*ObjectDefs, error) {
	raw, err := iniv1.Load(path)
	if err != nil {
		return nil, fmt.Errorf("objectdefs: loading table %s: %w", path, err)
	}

	defs := &ObjectDefs{
		defs:     make(map[ObjectId]ObjectDef),
		variants: make(map[model.Tile][]ObjectVariant),
	}

	for _, sec := range raw.Sections() {
		name := sec.Name()
		if name == iniv1.DefaultSection || name == "" {
			continue
		}
		id, err := ParseObjectId(name)
		if err != nil {
			return nil, fmt.Errorf("objectdefs: section %q: %w", name, err)
		}
		def, err := parseTableSection(sec)
		if err != nil {
			return nil, fmt.Errorf("objectdefs: section %q: %w", name, err)
		}
		defs.insert(id, def)
	}

	return defs, nil
}

func (d *ObjectDefs) insert(id ObjectId, def ObjectDef) {
	d.defs[id] = def
	if id.Variant != VariantNone {
		d.variants[id.Tile] = append(d.variants[id.Tile], id.Variant)
	}
}

func parseTableSection(sec *iniv1.Section) (ObjectDef, error) {
	var def ObjectDef
	def.Kind = KindObject
	def.Path = sec.Key("Path").String()
	def.EditorOnly = sec.Key("EditorOnly").MustBool(false)

	def.DrawParams.SyncTo = parseSyncTarget(sec.Key("SyncTo").String())
	def.DrawParams.BlendMode = parseBlendMode(sec.Key("BlendMode").String())
	def.DrawParams.FrameSize = Size{
		W: uint32(sec.Key("FrameWidth").MustUint(model.TilePixel)),
		H: uint32(sec.Key("FrameHeight").MustUint(model.TilePixel)),
	}
	if sec.HasKey("FrameFrom") || sec.HasKey("FrameTo") {
		def.DrawParams.FrameRange = &U32Range{
			Start: uint32(sec.Key("FrameFrom").MustUint(0)),
			End:   uint32(sec.Key("FrameTo").MustUint(0)),
		}
	}
	if sec.HasKey("AlphaMin") || sec.HasKey("AlphaMax") {
		def.DrawParams.AlphaRange = &U8Range{
			Start: uint8(sec.Key("AlphaMin").MustUint(0)),
			End:   uint8(sec.Key("AlphaMax").MustUint(255)),
		}
	}
	def.DrawParams.Offset = Point{
		X: sec.Key("OffsetX").MustInt64(0),
		Y: sec.Key("OffsetY").MustInt64(0),
	}
	def.DrawParams.Flip = sec.Key("Flip").MustBool(false)
	if sec.HasKey("FlipVariant") {
		v, err := ParseVariant(sec.Key("FlipVariant").String())
		if err != nil {
			return def, err
		}
		def.DrawParams.FlipVariant = &v
	}

	def.SyncParams.SyncTo = def.DrawParams.SyncTo
	def.SyncParams.SyncNorth = parseTileList(sec.Key("SyncNorth").String())
	def.SyncParams.SyncSouth = parseTileList(sec.Key("SyncSouth").String())
	def.SyncParams.SyncEast = parseTileList(sec.Key("SyncEast").String())
	def.SyncParams.SyncWest = parseTileList(sec.Key("SyncWest").String())
	if sec.HasKey("LaserPhase") {
		p, err := parseLaserPhase(sec.Key("LaserPhase").String())
		if err != nil {
			return def, err
		}
		def.SyncParams.LaserPhase = &p
	}

	limit, err := parseLimit(sec.Key("Limit").String())
	if err != nil {
		return def, err
	}
	def.Limit = limit

	def.OffsetCombine = parseOffsetCombine(sec.Key("OffsetCombine").String())
	def.OCOSupport = sec.Key("OCOSupport").MustBool(true)
	if sec.HasKey("ColorBase") {
		v := int32(sec.Key("ColorBase").MustInt64(0))
		def.ColorBase = &v
	}
	def.ColorOffsets = parseIntList(sec.Key("ColorOffsets").String())

	return def, nil
}

func parseSyncTarget(s string) SyncTarget {
	switch strings.ToLower(s) {
	case "screen":
		return SyncScreen
	case "group":
		return SyncGroup
	default:
		return SyncNone
	}
}

func parseBlendMode(s string) BlendMode {
	switch strings.ToLower(s) {
	case "add":
		return BlendAdd
	case "sub":
		return BlendSub
	default:
		return BlendOver
	}
}

func parseOffsetCombine(s string) OffsetCombine {
	if strings.EqualFold(s, "replace") {
		return OffsetReplace
	}
	return OffsetAdd
}

func parseLaserPhase(s string) (LaserPhase, error) {
	switch strings.ToLower(s) {
	case "red":
		return PhaseRed, nil
	case "green":
		return PhaseGreen, nil
	default:
		return 0, fmt.Errorf("unknown laser phase %q", s)
	}
}

func parseLimit(s string) (Limit, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Limit{Kind: LimitNone}, nil
	}
	lower := strings.ToLower(s)
	switch {
	case lower == "lognplusone" || lower == "log":
		return Limit{Kind: LimitLogNPlusOne}, nil
	case strings.HasPrefix(lower, "first:"):
		n, err := strconv.Atoi(s[len("first:"):])
		if err != nil {
			return Limit{}, fmt.Errorf("bad First limit %q: %w", s, err)
		}
		return Limit{Kind: LimitFirst, N: n}, nil
	case strings.HasPrefix(lower, "random:"):
		n, err := strconv.Atoi(s[len("random:"):])
		if err != nil {
			return Limit{}, fmt.Errorf("bad Random limit %q: %w", s, err)
		}
		return Limit{Kind: LimitRandom, N: n}, nil
	default:
		return Limit{}, fmt.Errorf("unrecognized limit %q", s)
	}
}

func parseTileList(s string) []model.Tile {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []model.Tile
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		parts := strings.SplitN(tok, "-", 2)
		if len(parts) != 2 {
			continue
		}
		bank, err1 := parseUint8(parts[0])
		idx, err2 := parseUint8(parts[1])
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, model.Tile{Bank: bank, Index: idx})
	}
	return out
}

func parseIntList(s string) []int32 {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []int32
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		v, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		out = append(out, int32(v))
	}
	return out
}

// AugmentFromWorldINI reads the world INI's "custom object <suffix>"
// sections and inserts or overrides definitions for the corresponding
// tiles, per the rules in SPEC_FULL.md / spec.md §4.3.
func (d *ObjectDefs) AugmentFromWorldINI(ini *worldini.File) error {
	for _, sec := range ini.CustomObjectSections() {
		suffix := strings.TrimSpace(sec.Suffix("custom object "))
		tile, err := customObjectTile(suffix)
		if err != nil {
			return fmt.Errorf("objectdefs: %q: %w", sec.Name(), err)
		}

		def := ObjectDef{
			Kind: KindCustomObject,
			Path: sec.GetOr("Image", ""),
		}
		def.DrawParams.FrameSize = Size{
			W: mustUint32(sec.GetOr("Tile Width", "24"), model.TilePixel),
			H: mustUint32(sec.GetOr("Tile Height", "24"), model.TilePixel),
		}
		offset := Point{
			X: mustInt64(sec.GetOr("Offset X", "0")),
			Y: mustInt64(sec.GetOr("Offset Y", "0")),
		}
		def.DrawParams.FrameRange = customObjectFrameRange(sec)
		def.DrawParams.BlendMode = BlendOver

		bankStr, hasBank := sec.Get("Bank")
		objectStr, hasObject := sec.Get("Object")

		if hasBank && hasObject {
			bank, err1 := strconv.Atoi(bankStr)
			object, err2 := strconv.Atoi(objectStr)
			if err1 != nil || err2 != nil {
				return fmt.Errorf("objectdefs: %q: bad Bank/Object", sec.Name())
			}
			original := model.Tile{Bank: uint8(bank), Index: uint8(object)}
			def.Kind = KindOverrideObject
			def.OriginalTile = original

			if originalDef, ok := d.Get(ObjectId{Tile: original}); ok {
				def.SyncParams.SyncTo = originalDef.SyncParams.SyncTo
				def.DrawParams.SyncTo = originalDef.DrawParams.SyncTo
				def.DrawParams.FrameRange = originalDef.DrawParams.FrameRange
				def.Limit = originalDef.Limit
				def.OCOSupport = originalDef.OCOSupport

				if originalDef.OffsetCombine == OffsetAdd {
					def.DrawParams.Offset = Point{
						X: originalDef.DrawParams.Offset.X + offset.X,
						Y: originalDef.DrawParams.Offset.Y + offset.Y,
					}
				} else {
					def.DrawParams.Offset = offset
				}

				if originalDef.ColorBase != nil {
					colorStr, ok := sec.Get("Color")
					if ok {
						color, err := strconv.Atoi(colorStr)
						if err == nil {
							def.ReplaceColors = buildReplaceColors(*originalDef.ColorBase, int32(color), originalDef.ColorOffsets)
						}
					}
				}
			} else {
				def.SyncParams.SyncTo = SyncNone
				def.DrawParams.SyncTo = SyncNone
				def.DrawParams.FrameRange = nil
				def.DrawParams.Offset = Point{}
				def.Limit = Limit{Kind: LimitNone}
			}
		} else {
			def.Kind = KindCustomObject
			def.SyncParams.SyncTo = SyncScreen
			def.DrawParams.SyncTo = SyncScreen
			def.Limit = Limit{Kind: LimitNone}
			def.DrawParams.Offset = offset
		}

		d.insert(ObjectId{Tile: tile}, def)
	}
	return nil
}

// customObjectTile maps a "custom object <suffix>" section's suffix to a
// tile: "bN" -> (254, N), "N" -> (255, N).
func customObjectTile(suffix string) (model.Tile, error) {
	if strings.HasPrefix(strings.ToLower(suffix), "b") {
		n, err := strconv.Atoi(suffix[1:])
		if err != nil || n < 0 || n > 255 {
			return model.Tile{}, fmt.Errorf("bad custom object suffix %q", suffix)
		}
		return model.Tile{Bank: model.CustomObjectBankB, Index: uint8(n)}, nil
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 0 || n > 255 {
		return model.Tile{}, fmt.Errorf("bad custom object suffix %q", suffix)
	}
	return model.Tile{Bank: model.CustomObjectBankPlain, Index: uint8(n)}, nil
}

// customObjectFrameRange derives the animation frame range from the
// "Init Anim*" keys, per spec.md §4.3.
func customObjectFrameRange(sec worldini.Section) *U32Range {
	animTo, hasTo := sec.Get("Init AnimTo")
	animFrom := sec.GetOr("Init AnimFrom", "0")
	animLoopBack := sec.GetOr("Init AnimLoopback", "0")
	animRepeat := sec.GetOr("Init AnimRepeat", "0")

	if !hasTo {
		return &U32Range{Start: 0, End: 1}
	}

	to := mustUint32(animTo, 0)
	from := mustUint32(animFrom, 0)
	loopBack := mustUint32(animLoopBack, 0)
	repeat := mustUint32(animRepeat, 0)

	if from > to {
		from = to
	}
	if loopBack > to {
		loopBack = to
	}

	if repeat == 0 {
		return &U32Range{Start: loopBack, End: to + 1}
	}
	return &U32Range{Start: from, End: from + 1}
}


// buildReplaceColors derives the colour-replacement list for an
// override-custom-object per spec.md §4.5: unpack_color(base+o) ->
// unpack_color(color+o) for o in [0] ++ color_offsets.
func buildReplaceColors(base, color int32, offsets []int32) []ColorPair {
	os := append([]int32{0}, offsets...)
	out := make([]ColorPair, 0, len(os))
	for _, o := range os {
		out = append(out, ColorPair{
			Old: unpackColor(base + o),
			New: unpackColor(color + o),
		})
	}
	return out
}

// unpackColor extracts (r,g,b) from a packed integer: r = c&0xFF,
// g = (c>>8)&0xFF, b = (c>>16)&0xFF, modulo 0x1000000.
func unpackColor(c int32) [3]uint8 {
	u := uint32(c) % 0x1000000
	return [3]uint8{
		uint8(u & 0xFF),
		uint8((u >> 8) & 0xFF),
		uint8((u >> 16) & 0xFF),
	}
}

func mustUint32(s string, def uint32) uint32 {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return def
	}
	return uint32(v)
}

func mustInt64(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
