package image

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/BourgeoisBear/rasterm"
	"github.com/disintegration/imaging"
)

// Cell geometry used to turn a cell budget into a pixel budget
const (
	CellPixelWidth  = 8
	CellPixelHeight = 16
)

// TerminalType identifies the hosting terminal
type TerminalType string

const (
	TerminalKitty   TerminalType = "kitty"
	TerminalITerm2  TerminalType = "iterm2"
	TerminalWezTerm TerminalType = "wezterm"
	TerminalGhostty TerminalType = "ghostty"
	TerminalGeneric TerminalType = "generic"
)

// GraphicsProtocol is the inline image protocol spoken by the terminal
type GraphicsProtocol string

const (
	ProtocolKitty GraphicsProtocol = "kitty"
	ProtocolITerm GraphicsProtocol = "iterm2"
	ProtocolSixel GraphicsProtocol = "sixel"
	ProtocolNone  GraphicsProtocol = "none"
)

// Renderer turns a local photo into terminal output
type Renderer interface {
	Render(path string, cols, rows int) (*ImagePreview, error)
	Protocol() GraphicsProtocol
	Clear() string
}

// ImageRenderer renders with rasterm when the terminal has a graphics
// protocol and with 24-bit ANSI half blocks otherwise.
type ImageRenderer struct {
	terminal TerminalType
	protocol GraphicsProtocol
}

// NewImageRenderer detects the terminal from the process environment
func NewImageRenderer() *ImageRenderer {
	return NewImageRendererFromEnv(os.Getenv)
}

// NewImageRendererFromEnv detects the terminal through getenv
func NewImageRendererFromEnv(getenv func(string) string) *ImageRenderer {
	t, p := DetectTerminal(getenv)
	return &ImageRenderer{terminal: t, protocol: p}
}

// DetectTerminal picks a graphics protocol from terminal environment variables
func DetectTerminal(getenv func(string) string) (TerminalType, GraphicsProtocol) {
	term := strings.ToLower(getenv("TERM"))
	termProgram := strings.ToLower(getenv("TERM_PROGRAM"))

	switch {
	case getenv("KITTY_WINDOW_ID") != "" || strings.Contains(term, "kitty"):
		return TerminalKitty, ProtocolKitty
	case getenv("GHOSTTY") != "" || termProgram == "ghostty" || strings.Contains(term, "ghostty"):
		return TerminalGhostty, ProtocolKitty
	case termProgram == "iterm.app":
		return TerminalITerm2, ProtocolITerm
	case termProgram == "wezterm":
		return TerminalWezTerm, ProtocolITerm
	}

	for _, sixel := range []string{"xterm-sixel", "mlterm", "yaft"} {
		if strings.Contains(term, sixel) {
			return TerminalGeneric, ProtocolSixel
		}
	}
	return TerminalGeneric, ProtocolNone
}

// Protocol returns the detected graphics protocol
func (r *ImageRenderer) Protocol() GraphicsProtocol {
	return r.protocol
}

// Clear returns the sequence that removes inline images. Only kitty can
// delete images without wiping the screen; the TUI redraw covers the rest.
func (r *ImageRenderer) Clear() string {
	if r.protocol == ProtocolKitty {
		return "\x1b_Ga=d\x1b\\"
	}
	return ""
}

// Render decodes path and fits it into cols x rows terminal cells
func (r *ImageRenderer) Render(path string, cols, rows int) (*ImagePreview, error) {
	cols = max(1, cols)
	rows = max(1, rows)

	if err := validateImageFile(path); err != nil {
		return nil, err
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, r.renderError(fmt.Errorf("failed to decode image: %w", err))
	}

	bounds := img.Bounds()
	preview := &ImagePreview{
		FilePath:     path,
		OriginalSize: ImageSize{Width: bounds.Dx(), Height: bounds.Dy()},
		Format:       formatOf(path),
	}

	var out strings.Builder
	switch r.protocol {
	case ProtocolKitty, ProtocolITerm, ProtocolSixel:
		fitted := imaging.Fit(img, cols*CellPixelWidth, rows*CellPixelHeight, imaging.Lanczos)
		if err := r.writeGraphics(&out, fitted); err != nil {
			return nil, r.renderError(err)
		}
		fb := fitted.Bounds()
		preview.DisplaySize = ImageSize{Width: fb.Dx(), Height: fb.Dy()}
		preview.RenderCols = max(1, (fb.Dx()+CellPixelWidth-1)/CellPixelWidth)
		preview.RenderRows = max(1, (fb.Dy()+CellPixelHeight-1)/CellPixelHeight)
	default:
		// two pixels per cell, one in each half of the block
		fitted := imaging.Fit(img, cols, rows*2, imaging.Box)
		writeHalfBlocks(&out, fitted)
		fb := fitted.Bounds()
		preview.DisplaySize = ImageSize{Width: fb.Dx(), Height: fb.Dy()}
		preview.RenderCols = fb.Dx()
		preview.RenderRows = (fb.Dy() + 1) / 2
	}

	preview.RenderedData = out.String()
	return preview, nil
}

func (r *ImageRenderer) writeGraphics(out *strings.Builder, img image.Image) error {
	switch r.protocol {
	case ProtocolKitty:
		b := img.Bounds()
		opts := rasterm.KittyImgOpts{
			DstCols: uint32(max(1, (b.Dx()+CellPixelWidth-1)/CellPixelWidth)),
			DstRows: uint32(max(1, (b.Dy()+CellPixelHeight-1)/CellPixelHeight)),
		}
		if err := rasterm.KittyWriteImage(out, img, opts); err != nil {
			return fmt.Errorf("failed to encode image with Kitty protocol: %w", err)
		}
	case ProtocolITerm:
		if err := rasterm.ItermWriteImage(out, img); err != nil {
			return fmt.Errorf("failed to encode image with iTerm2 protocol: %w", err)
		}
	case ProtocolSixel:
		bounds := img.Bounds()
		paletted := image.NewPaletted(bounds, palette.Plan9)
		draw.FloydSteinberg.Draw(paletted, bounds, img, bounds.Min)
		if err := rasterm.SixelWriteImage(out, paletted); err != nil {
			return fmt.Errorf("failed to encode image with Sixel protocol: %w", err)
		}
	}
	return nil
}

func (r *ImageRenderer) renderError(err error) error {
	return &RenderError{Terminal: string(r.terminal), Protocol: string(r.protocol), Err: err}
}

// writeHalfBlocks draws img with the upper half block glyph, the top pixel
// as foreground and the bottom pixel as background.
func writeHalfBlocks(out *strings.Builder, img image.Image) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			r1, g1, b1, _ := img.At(x, y).RGBA()
			r2, g2, b2 := r1, g1, b1
			if y+1 < b.Max.Y {
				r2, g2, b2, _ = img.At(x, y+1).RGBA()
			}
			fmt.Fprintf(out, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				r1>>8, g1>>8, b1>>8, r2>>8, g2>>8, b2>>8)
		}
		out.WriteString("\x1b[0m\n")
	}
}

func validateImageFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, _ := f.Read(buf)

	contentType := http.DetectContentType(buf[:n])
	switch contentType {
	case "image/jpeg", "image/png", "image/gif":
		return nil
	}
	return &FormatError{Format: contentType, FilePath: path, Reason: "unsupported image format"}
}

func formatOf(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "jpg" {
		return "jpeg"
	}
	return ext
}
