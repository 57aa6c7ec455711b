package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"clipcast/video"
)

// The video automater: reformat a directory of videos for a platform
// preset, masking watermarks and stamping the channel logo.
func main() {
	input := flag.String("input", "", "Source video file or directory")
	outDir := flag.String("out", "output", "Directory for branded output")
	preset := flag.String("preset", "tiktok", "Platform preset (use -presets to list)")
	logoPath := flag.String("logo", "", "Logo image to overlay (optional)")
	logoWidth := flag.Int("logo-width", 0, "Logo width in pixels (0 = auto)")
	topBar := flag.Float64("top-bar", 0, "Top bar height as percent of frame (0 = off)")
	bottomBar := flag.Float64("bottom-bar", 0, "Bottom bar height as percent of frame (0 = off)")
	opacity := flag.Float64("bar-opacity", 0.7, "Bar opacity")
	caption := flag.String("caption", "", "Caption text to draw (optional)")
	listPresets := flag.Bool("presets", false, "List platform presets and exit")
	flag.Parse()

	if *listPresets {
		names := make([]string, 0, len(video.FormatPresets))
		for name := range video.FormatPresets {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Println("Available presets:")
		for _, name := range names {
			f := video.FormatPresets[name]
			fmt.Printf("  %-10s %dx%d\n", name, f.Width, f.Height)
		}
		os.Exit(0)
	}

	if *input == "" {
		flag.Usage()
		log.Fatal("--input is required")
	}

	spec := video.BrandSpec{Format: video.ResolveFormat(*preset)}
	if *topBar > 0 {
		spec.TopBar = &video.Bar{HeightPercent: *topBar, Opacity: *opacity}
	}
	if *bottomBar > 0 {
		spec.BottomBar = &video.Bar{HeightPercent: *bottomBar, Opacity: *opacity}
	}
	if *logoPath != "" {
		spec.Logo = &video.Logo{Path: *logoPath, Width: *logoWidth, XPosition: "c", YOffsetPercent: 5}
	}
	if *caption != "" {
		spec.Overlays = []video.TextOverlay{{Text: *caption, YOffsetPercent: 85}}
	}

	sources, err := collectSources(*input)
	if err != nil {
		log.Fatalf("failed to collect sources: %v", err)
	}
	if len(sources) == 0 {
		log.Fatalf("no videos found at %s", *input)
	}
	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("failed to create output dir: %v", err)
	}

	for i, src := range sources {
		base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		out := filepath.Join(*outDir, fmt.Sprintf("%s_%s.mp4", base, *preset))
		log.Printf("[%d/%d] %s", i+1, len(sources), filepath.Base(src))
		if err := video.Brand(src, out, spec); err != nil {
			log.Printf("failed to brand %s: %v", src, err)
		}
	}
}

func collectSources(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{input}, nil
	}
	return filepath.Glob(filepath.Join(input, "*.mp4"))
}
