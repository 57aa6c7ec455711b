// Package video is the branding automater: it reformats a source video for
// a platform aspect ratio and overlays bars, a logo, and captions. All
// pixel work is delegated to ffmpeg.
package video

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"clipcast/config"
)

// Brand reformats the video at srcPath per spec and writes the result to
// outputPath. The filter chain is: scale and pad to the target frame, draw
// the top and bottom bars, overlay the logo, then draw each text overlay.
func Brand(srcPath, outputPath string, spec BrandSpec) error {
	if _, err := os.Stat(srcPath); err != nil {
		return fmt.Errorf("source video: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	f := spec.Format
	log.Printf("Branding %s -> %s (%s %dx%d)", filepath.Base(srcPath), filepath.Base(outputPath), f.Name, f.Width, f.Height)

	stream := ffmpeg.Input(srcPath).
		Filter("scale", ffmpeg.Args{scaleArg(f)}).
		Filter("pad", ffmpeg.Args{padArg(f)})

	if spec.TopBar != nil {
		stream = stream.Filter("drawbox", ffmpeg.Args{}, barKwArgs(*spec.TopBar, f, true))
	}
	if spec.BottomBar != nil {
		stream = stream.Filter("drawbox", ffmpeg.Args{}, barKwArgs(*spec.BottomBar, f, false))
	}

	if spec.Logo != nil {
		logo := ffmpeg.Input(spec.Logo.Path).
			Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:-1", logoWidth(*spec.Logo, f))})
		x, y := logoPosition(*spec.Logo, f)
		stream = ffmpeg.Filter([]*ffmpeg.Stream{stream, logo}, "overlay", ffmpeg.Args{x, y})
	}

	for _, ov := range spec.Overlays {
		stream = stream.Filter("drawtext", ffmpeg.Args{}, drawtextKwArgs(ov, f))
	}

	err := stream.
		Output(outputPath, ffmpeg.KwArgs{
			"c:v":    config.VideoCodec,
			"preset": config.VideoPreset,
			"c:a":    "copy",
		}).
		OverWriteOutput().
		Run()
	if err != nil {
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}

// scaleArg fits the source inside the target frame without distortion.
func scaleArg(f Format) string {
	return fmt.Sprintf("%d:%d:force_original_aspect_ratio=decrease", f.Width, f.Height)
}

// padArg letterboxes the scaled source to exactly the target frame.
func padArg(f Format) string {
	return fmt.Sprintf("%d:%d:(ow-iw)/2:(oh-ih)/2:black", f.Width, f.Height)
}

// barHeight converts a percentage band into pixels for the target frame.
func barHeight(b Bar, f Format) int {
	return int(float64(f.Height) * b.HeightPercent / 100.0)
}

// barKwArgs renders a drawbox filter covering the top or bottom band.
func barKwArgs(b Bar, f Format, top bool) ffmpeg.KwArgs {
	h := barHeight(b, f)
	y := 0
	if !top {
		y = f.Height - h
	}
	return ffmpeg.KwArgs{
		"x":     0,
		"y":     y,
		"w":     f.Width,
		"h":     h,
		"color": fmt.Sprintf("black@%.2f", b.Opacity),
		"t":     "fill",
	}
}

// logoWidth bounds the logo width to the frame.
func logoWidth(l Logo, f Format) int {
	if l.Width <= 0 || l.Width > f.Width {
		return f.Width / 4
	}
	return l.Width
}

// logoPosition computes the overlay expressions for the logo placement.
// Horizontal position is left, center, or right; vertical position is a
// percentage offset from the top.
func logoPosition(l Logo, f Format) (x, y string) {
	switch l.XPosition {
	case "l":
		x = "10"
	case "r":
		x = "main_w-overlay_w-10"
	default:
		x = "(main_w-overlay_w)/2"
	}
	y = fmt.Sprintf("%d", int(float64(f.Height)*l.YOffsetPercent/100.0))
	return x, y
}

// drawtextKwArgs renders one caption overlay, centered horizontally.
func drawtextKwArgs(ov TextOverlay, f Format) ffmpeg.KwArgs {
	size := ov.FontSize
	if size <= 0 {
		size = 32
	}
	color := ov.FontColor
	if color == "" {
		color = "white"
	}
	return ffmpeg.KwArgs{
		"text":      ov.Text,
		"fontsize":  size,
		"fontcolor": color,
		"x":         "(w-text_w)/2",
		"y":         fmt.Sprintf("%d", int(float64(f.Height)*ov.YOffsetPercent/100.0)),
		"borderw":   2,
	}
}
