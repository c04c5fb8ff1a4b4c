package plot

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Default chart size used when no window is around (headless rendering).
const (
	DefaultWidth  = 900
	DefaultHeight = 320
)

var surfaceBackground = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Surface is the drawing area a strategy renders onto.
type Surface struct {
	width, height int
	img           image.Image
}

func NewSurface(w, h int) *Surface {
	s := &Surface{}
	s.Resize(w, h)
	return s
}

// Size returns the current pixel size.
func (s *Surface) Size() (int, int) { return s.width, s.height }

// Resize changes the size and clears the surface.
func (s *Surface) Resize(w, h int) {
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	s.width, s.height = w, h
	s.Clear()
}

// Clear replaces the content with a blank background.
func (s *Surface) Clear() { s.img = blank(s.width, s.height) }

func (s *Surface) Image() image.Image { return s.img }

// SetImage restores a previously rendered image, e.g. after a failed redraw.
func (s *Surface) SetImage(img image.Image) {
	if img != nil {
		s.img = img
	}
}

// Message clears the surface and writes text in its center.
func (s *Surface) Message(text string) {
	s.Clear()
	s.img = drawCentered(s.img, text)
}

// drawPNG runs a renderer that writes PNG bytes and decodes the result onto
// the surface.
func (s *Surface) drawPNG(render func(w io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return fmt.Errorf("decode rendered chart: %w", err)
	}
	s.img = img
	return nil
}

func blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(surfaceBackground), image.Point{}, draw.Src)
	return img
}

// drawCentered draws text onto a copy of img using the 7x13 bitmap face.
func drawCentered(img image.Image, text string) image.Image {
	if img == nil || strings.TrimSpace(text) == "" {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: rgba, Src: image.NewUniform(color.RGBA{R: 120, G: 20, B: 20, A: 255}), Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := b.Min.X + (b.Dx()-tw)/2
	if x < b.Min.X+4 {
		x = b.Min.X + 4
	}
	y := b.Min.Y + b.Dy()/2
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return rgba
}
