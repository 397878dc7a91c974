package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"strings"

	// Register image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	// WebP support from x/image
	_ "golang.org/x/image/webp"
	"golang.org/x/image/draw"

	"github.com/charmbracelet/lipgloss"
)

// halfBlock draws the upper pixel as foreground and the lower as background.
const halfBlock = "▀"

// DecodeError reports image bytes that are not a usable image.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return e.Err.Error() }

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode decodes PNG, JPEG, GIF or WebP data.
func Decode(data []byte) (image.Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("decoding image (format=%s): %w", format, err)}
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, &DecodeError{Err: fmt.Errorf("decoding image: empty %dx%d image", b.Dx(), b.Dy())}
	}
	return img, nil
}

// Scale fits img into width pixel columns, keeping its aspect ratio, over a
// solid background. The height is rounded up to an even number of pixels so
// each text row holds two.
func Scale(img image.Image, width int, bg color.Color) *image.RGBA {
	b := img.Bounds()
	if width <= 0 {
		width = 1
	}
	height := (b.Dy()*width + b.Dx() - 1) / b.Dx()
	if height < 2 {
		height = 2
	}
	if height%2 == 1 {
		height++
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// HalfBlocks renders img as rows of half-block cells, two pixel rows per
// line.
func HalfBlocks(img *image.RGBA) string {
	b := img.Bounds()
	lines := make([]string, 0, b.Dy()/2)
	for y := b.Min.Y; y+1 < b.Max.Y; y += 2 {
		var line strings.Builder
		for x := b.Min.X; x < b.Max.X; x++ {
			style := lipgloss.NewStyle().
				Foreground(hexColor(img.RGBAAt(x, y))).
				Background(hexColor(img.RGBAAt(x, y+1)))
			line.WriteString(style.Render(halfBlock))
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// parseHex parses "#rrggbb", defaulting to black.
func parseHex(s string) color.RGBA {
	var r, g, b uint8
	if _, err := fmt.Sscanf(strings.TrimPrefix(s, "#"), "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
