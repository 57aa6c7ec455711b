package video

// Format is a platform output shape.
type Format struct {
	Name   string
	Width  int
	Height int
}

// Platform aspect presets. Vertical for TikTok/Reels/Shorts, square for
// feed posts, landscape for standard YouTube.
var (
	FormatVertical  = Format{Name: "9:16", Width: 1080, Height: 1920}
	FormatSquare    = Format{Name: "1:1", Width: 1080, Height: 1080}
	FormatLandscape = Format{Name: "16:9", Width: 1920, Height: 1080}
)

// FormatPresets maps friendly names to output formats.
var FormatPresets = map[string]Format{
	"tiktok":  FormatVertical,
	"reels":   FormatVertical,
	"shorts":  FormatVertical,
	"square":  FormatSquare,
	"youtube": FormatLandscape,
	"9:16":    FormatVertical,
	"1:1":     FormatSquare,
	"16:9":    FormatLandscape,
}

// ResolveFormat resolves a preset name to a format. Unknown names fall back
// to vertical, the most common short-video shape.
func ResolveFormat(name string) Format {
	if f, ok := FormatPresets[name]; ok {
		return f
	}
	return FormatVertical
}

// Bar is a translucent horizontal band drawn over the top or bottom of the
// frame, used to mask source watermarks and carry branding.
type Bar struct {
	HeightPercent float64
	Opacity       float64
}

// Logo overlays an image on the frame. XPosition is "l", "c", or "r";
// YOffsetPercent measures down from the top edge.
type Logo struct {
	Path           string
	Width          int
	XPosition      string
	YOffsetPercent float64
}

// TextOverlay draws a caption onto the frame.
type TextOverlay struct {
	Text           string
	FontSize       int
	FontColor      string
	YOffsetPercent float64
}

// BrandSpec describes one reformat-and-brand pass over a source video.
type BrandSpec struct {
	Format    Format
	TopBar    *Bar
	BottomBar *Bar
	Logo      *Logo
	Overlays  []TextOverlay
}
