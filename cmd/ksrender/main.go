// Command ksrender stitches a parsed Knytt Underground level's screens into
// one or more large PNG/WebP rasters, synchronizing animated objects across
// screen boundaries and partitioning output that would otherwise exceed a
// configurable pixel budget.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"
	"sync"
	"time"

	"github.com/spindlymist/ksrender/internal/assets"
	"github.com/spindlymist/ksrender/internal/drawing"
	"github.com/spindlymist/ksrender/internal/encode"
	"github.com/spindlymist/ksrender/internal/graphics"
	"github.com/spindlymist/ksrender/internal/mapfile"
	"github.com/spindlymist/ksrender/internal/memlimit"
	"github.com/spindlymist/ksrender/internal/model"
	"github.com/spindlymist/ksrender/internal/objectdefs"
	"github.com/spindlymist/ksrender/internal/partition"
	"github.com/spindlymist/ksrender/internal/report"
	"github.com/spindlymist/ksrender/internal/screenmap"
	"github.com/spindlymist/ksrender/internal/seed"
	"github.com/spindlymist/ksrender/internal/worldini"
	"github.com/spindlymist/ksrender/internal/worldsync"
)

// Set via -ldflags at build time.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	var (
		mapPath         string
		objectsPath     string
		worldIniPath    string
		dataDir         string
		templatesDir    string
		seedHex         string
		partitioner     string
		maxScreensWide  int
		maxScreensTall  int
		gridRows        int
		gridCols        int
		gapMin          int64
		gapMax          int64
		forcePartition  bool
		format          string
		quality         int
		thumbnailMax    int
		thumbnailFilter string
		editorOnly      bool
		maximizeLasers  bool
		showVersion     bool
		verbose         bool
		cpuProfile      string
		memProfile      string
	)

	flag.StringVar(&mapPath, "map", "", "Path to the parsed level JSON (required)")
	flag.StringVar(&objectsPath, "objects", "", "Path to the object definition table INI (required)")
	flag.StringVar(&worldIniPath, "world-ini", "", "Path to the world INI file (optional)")
	flag.StringVar(&dataDir, "data-dir", ".", "Directory containing Tilesets/, Gradients/, Objects/")
	flag.StringVar(&templatesDir, "templates-dir", "", "Directory of template overrides (optional)")
	flag.StringVar(&seedHex, "seed", "", "Hex map seed (default: random)")
	flag.StringVar(&partitioner, "partitioner", "grid", "Partitioning strategy: grid, islands")
	flag.IntVar(&maxScreensWide, "max-width", 16, "Maximum partition width, in screens")
	flag.IntVar(&maxScreensTall, "max-height", 16, "Maximum partition height, in screens")
	flag.IntVar(&gridRows, "grid-rows", 0, "Force GridPartitioner row count (0 = auto)")
	flag.IntVar(&gridCols, "grid-cols", 0, "Force GridPartitioner column count (0 = auto)")
	flag.Int64Var(&gapMin, "gap-min", 1, "IslandsPartitioner minimum clustering gap")
	flag.Int64Var(&gapMax, "gap-max", 8, "IslandsPartitioner starting clustering gap")
	flag.BoolVar(&forcePartition, "force", false, "Subdivide into partitions even when every screen already fits within the max size")
	flag.StringVar(&format, "format", "png", "Output format: png, webp")
	flag.IntVar(&quality, "quality", 90, "WebP quality 1-100 (ignored for png)")
	flag.IntVar(&thumbnailMax, "thumbnail-max", 0, "Write a preview no larger than NxN pixels alongside each partition (0 = disabled)")
	flag.StringVar(&thumbnailFilter, "thumbnail-filter", "box", "Thumbnail resampling: box, bilinear")
	flag.BoolVar(&editorOnly, "editor-only", false, "Draw editor-only objects (trigger markers, spawn points)")
	flag.BoolVar(&maximizeLasers, "maximize-lasers", false, "Bias each sync group's laser colour toward whichever occurs more, instead of only breaking zero-count ties")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.BoolVar(&verbose, "verbose", false, "Verbose per-stage timing output")
	flag.StringVar(&cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	flag.StringVar(&memProfile, "memprofile", "", "Write memory profile to file")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ksrender [flags] <output-dir>\n\n")
		fmt.Fprintf(os.Stderr, "Render a Knytt Underground level to one or more raster images.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("ksrender %s (commit %s, built %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			log.Fatalf("Creating CPU profile: %v", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("Starting CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()
		if verbose {
			log.Printf("CPU profiling enabled → %s", cpuProfile)
		}
	}

	if memProfile != "" {
		defer func() {
			f, err := os.Create(memProfile)
			if err != nil {
				log.Fatalf("Creating memory profile: %v", err)
			}
			defer f.Close()
			runtime.GC()
			if err := pprof.WriteHeapProfile(f); err != nil {
				log.Fatalf("Writing memory profile: %v", err)
			}
			if verbose {
				log.Printf("Memory profile written → %s", memProfile)
			}
		}()
	}

	args := flag.Args()
	if len(args) != 1 {
		flag.Usage()
		os.Exit(1)
	}
	outDir := args[0]

	if mapPath == "" || objectsPath == "" {
		log.Fatal("-map and -objects are required")
	}

	enc, err := encode.NewEncoder(format, quality)
	if err != nil {
		log.Fatalf("Encoder: %v", err)
	}
	thumbFilter, err := encode.ParseThumbnailFilter(thumbnailFilter)
	if err != nil {
		log.Fatalf("Thumbnail filter: %v", err)
	}

	var mapSeed seed.MapSeed
	if seedHex != "" {
		mapSeed, err = seed.Parse(seedHex)
		if err != nil {
			log.Fatalf("Seed: %v", err)
		}
	} else {
		mapSeed = seed.Random()
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatalf("Creating output directory: %v", err)
	}

	start := time.Now()

	stageStart := time.Now()
	screens, err := mapfile.Load(mapPath)
	if err != nil {
		log.Fatalf("Loading map: %v", err)
	}
	sm, err := screenmap.New(screens)
	if err != nil {
		log.Fatalf("Building screen map: %v", err)
	}
	if verbose {
		log.Printf("Loaded %d screens in %v", sm.Len(), time.Since(stageStart).Round(time.Millisecond))
	}

	stageStart = time.Now()
	defs, err := objectdefs.LoadTable(objectsPath)
	if err != nil {
		log.Fatalf("Loading object definitions: %v", err)
	}
	var worldIni *worldini.File
	if worldIniPath != "" {
		worldIni, err = worldini.Load(worldIniPath)
		if err != nil {
			log.Fatalf("Loading world INI: %v", err)
		}
		if err := defs.AugmentFromWorldINI(worldIni); err != nil {
			log.Fatalf("Augmenting object definitions from world INI: %v", err)
		}
	}
	if verbose {
		log.Printf("Loaded %d object definitions in %v", defs.Len(), time.Since(stageStart).Round(time.Millisecond))
	}

	stageStart = time.Now()
	used := assets.List(sm.All(), defs)
	g := graphics.New(graphics.Paths{LevelDir: filepath.Dir(worldIniPath), DataDir: dataDir, TemplatesDir: templatesDir})
	if err := g.Preload(used, defs); err != nil {
		log.Fatalf("Loading graphics: %v", err)
	}
	if verbose {
		log.Printf("Loaded %d tilesets, %d gradients, %d objects in %v",
			len(used.Tilesets), len(used.Gradients), len(used.Objects), time.Since(stageStart).Round(time.Millisecond))
	}

	stageStart = time.Now()
	ws := worldsync.Build(sm, defs, mapSeed, worldsync.Options{MaximizeVisibleLasers: maximizeLasers})
	if verbose {
		log.Printf("Built world sync in %v", time.Since(stageStart).Round(time.Millisecond))
	}

	stageStart = time.Now()
	parts, err := buildPartitions(sm, partitioner, partition.MaxSize{Width: int64(maxScreensWide), Height: int64(maxScreensTall)}, gridRows, gridCols, gapMin, gapMax, forcePartition)
	if err != nil {
		log.Fatalf("Partitioning: %v", err)
	}
	if verbose {
		log.Printf("Built %d partition(s) in %v", len(parts), time.Since(stageStart).Round(time.Millisecond))
	}

	fmt.Printf("ksrender %s (commit %s, built %s)\n", version, commit, buildDate)
	fmt.Printf("  %-16s %s\n", "Seed:", mapSeed)
	fmt.Printf("  %-16s %s (%d partition(s))\n", "Partitioner:", partitioner, len(parts))
	fmt.Printf("  %-16s %s\n", "Format:", format)
	fmt.Printf("  %-16s %d\n", "Screens:", sm.Len())
	fmt.Printf("  %-16s %s\n", "Output:", outDir)

	stats := report.New()
	ctx := &drawing.Context{
		ScreenMap:  sm,
		Graphics:   g,
		Defs:       defs,
		WorldSync:  ws,
		WorldINI:   worldIni,
		MapSeed:    mapSeed,
		EditorOnly: editorOnly,
	}

	stageStart = time.Now()
	results := drawing.DrawPartitions(ctx, parts, stats)
	if verbose {
		log.Printf("Drew %d screen(s) in %v", stats.ScreensDrawn, time.Since(stageStart).Round(time.Millisecond))
	}

	stageStart = time.Now()
	encodeResults(results, outDir, enc, thumbnailMax, thumbFilter, stats, verbose)
	if verbose {
		log.Printf("Encoded %d partition(s) in %v", len(results), time.Since(stageStart).Round(time.Millisecond))
	}

	fmt.Printf("Done: %d screens, %d objects drawn (%d skipped) in %v\n",
		stats.ScreensDrawn, stats.ObjectsDrawn, stats.ObjectsSkipped, time.Since(start).Round(time.Millisecond))

	if stats.HasIssues() {
		fmt.Fprintf(os.Stderr, "%d issue(s) encountered:\n", len(stats.Issues()))
		for _, issue := range stats.Issues() {
			fmt.Fprintf(os.Stderr, "  %s\n", issue)
		}
		os.Exit(1)
	}
}

func buildPartitions(sm *screenmap.ScreenMap, strategyName string, maxSize partition.MaxSize, gridRows, gridCols int, gapMin, gapMax int64, force bool) ([]partition.Partition, error) {
	positions := make([]model.ScreenCoord, sm.Len())
	for i := 0; i < sm.Len(); i++ {
		positions[i] = sm.At(i).Position
	}

	var strategy partition.Strategy
	switch strategyName {
	case "grid":
		gp := partition.GridPartitioner{MaxSize: maxSize, Force: force}
		if gridRows > 0 {
			r := int64(gridRows)
			gp.Rows = &r
		}
		if gridCols > 0 {
			c := int64(gridCols)
			gp.Cols = &c
		}
		strategy = gp
	case "islands":
		strategy = partition.IslandsPartitioner{MaxSize: maxSize, Gap: partition.GapRange{Min: gapMin, Max: gapMax}, Force: force}
	default:
		return nil, fmt.Errorf("unknown partitioner %q (want grid or islands)", strategyName)
	}

	return strategy.Partition(positions), nil
}

// partitionFileStem turns a partition's bounds display form ("x0y0 to
// x3y3") into a filesystem-safe stem ("x0y0_to_x3y3").
func partitionFileStem(b partition.Bounds) string {
	return strings.ReplaceAll(b.String(), " ", "_")
}

func writeResult(result drawing.Result, outDir string, enc encode.Encoder, thumbnailMax int, thumbFilter encode.ThumbnailFilter) error {
	stem := partitionFileStem(result.Bounds)

	data, err := enc.Encode(result.Image)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", result.Bounds, err)
	}
	outPath := filepath.Join(outDir, stem+enc.FileExtension())
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	if thumbnailMax <= 0 {
		return nil
	}
	thumb, err := encode.Thumbnail(result.Image, thumbnailMax, thumbnailMax, thumbFilter)
	if err != nil {
		return fmt.Errorf("generating thumbnail for %s: %w", result.Bounds, err)
	}
	thumbData, err := enc.Encode(thumb)
	if err != nil {
		return fmt.Errorf("encoding thumbnail for %s: %w", result.Bounds, err)
	}
	thumbPath := filepath.Join(outDir, stem+".thumb"+enc.FileExtension())
	if err := os.WriteFile(thumbPath, thumbData, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", thumbPath, err)
	}
	return nil
}

// encodeResults writes every partition's rendered canvas to outDir, bounding
// how many canvases are encoded concurrently by the machine's available
// memory: a render with many large partitions shouldn't hold all of them
// resident at once just to encode faster.
func encodeResults(results []drawing.Result, outDir string, enc encode.Encoder, thumbnailMax int, thumbFilter encode.ThumbnailFilter, stats *report.Stats, verbose bool) {
	if len(results) == 0 {
		return
	}

	w, h := results[0].Image.Rect.Dx(), results[0].Image.Rect.Dy()
	bytesPerCanvas := int64(w) * int64(h) * 4
	budget := memlimit.ComputeBudget(memlimit.DefaultBudgetFraction, verbose)
	workers := memlimit.Workers(budget, bytesPerCanvas)
	if verbose {
		log.Printf("Encoding with %d worker(s)", workers)
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for _, result := range results {
		result := result
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			if err := writeResult(result, outDir, enc, thumbnailMax, thumbFilter); err != nil {
				stats.Record(result.Bounds.String(), err)
			}
			drawing.ReleaseCanvas(result.Image)
		}()
	}
	wg.Wait()
}
