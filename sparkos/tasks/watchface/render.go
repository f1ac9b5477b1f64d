package watchface

import (
	"image/color"
	"strings"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"

	"sparkwatch/hal"
)

var (
	colorBackground = color.RGBA{A: 0xFF}
	colorText       = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// Renderer paints a Screen onto a framebuffer. The 144x168 canvas is centered;
// whatever does not fit the framebuffer is clipped.
type Renderer struct {
	fb     hal.Framebuffer
	ox, oy int
}

func NewRenderer(fb hal.Framebuffer) *Renderer {
	r := &Renderer{fb: fb}
	if w := fb.Width(); w > CanvasWidth {
		r.ox = (w - CanvasWidth) / 2
	}
	if h := fb.Height(); h > CanvasHeight {
		r.oy = (h - CanvasHeight) / 2
	}
	return r
}

// Origin returns the framebuffer position of the canvas top-left corner.
func (r *Renderer) Origin() (x, y int) { return r.ox, r.oy }

// Draw repaints the whole canvas from s. It does not present the frame.
func (r *Renderer) Draw(s *Screen) {
	if r.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := r.fb.Buffer()
	stride := r.fb.StrideBytes()

	x0, y0, w, h := r.canvasBounds()
	fillRectRGB565(buf, stride, x0, y0, w, h, rgb565From888(colorBackground.R, colorBackground.G, colorBackground.B))

	for _, f := range drawOrder {
		if s.Hidden(f) {
			continue
		}
		text := s.Text(f)
		if text == "" {
			continue
		}
		r.drawField(layouts[f], text)
	}

	if s.Overlay() {
		invertRectRGB565(buf, stride, x0, y0, w, h)
	}
}

// canvasBounds returns the canvas area clipped to the framebuffer.
func (r *Renderer) canvasBounds() (x, y, w, h int) {
	w = min(CanvasWidth, r.fb.Width()-r.ox)
	h = min(CanvasHeight, r.fb.Height()-r.oy)
	return r.ox, r.oy, max(w, 0), max(h, 0)
}

func (r *Renderer) drawField(l fieldLayout, text string) {
	lines := wrapText(l.font, text, l.rect.W)
	if len(lines) == 0 {
		return
	}
	d := &canvasDisplayer{r: r, clip: l.rect}
	ascent := fontAscent(l.font)
	lineH := int(l.font.GetYAdvance())

	baseline := l.rect.Y + ascent
	for _, line := range lines {
		if baseline-ascent >= l.rect.Y+l.rect.H {
			break
		}
		x := l.rect.X + (l.rect.W-textWidth(l.font, line))/2
		if x < l.rect.X {
			x = l.rect.X
		}
		tinyfont.WriteLine(d, l.font, int16(x), int16(baseline), line, colorText)
		baseline += lineH
	}
}

func fontAscent(f tinyfont.Fonter) int {
	if a := -int(f.GetGlyph('0').Info().YOffset); a > 0 {
		return a
	}
	return int(f.GetYAdvance())
}

// canvasDisplayer maps canvas coordinates to the framebuffer and clips to one
// field rectangle.
type canvasDisplayer struct {
	r    *Renderer
	clip Rect
}

var _ drivers.Displayer = (*canvasDisplayer)(nil)

func (d *canvasDisplayer) Size() (x, y int16) {
	return CanvasWidth, CanvasHeight
}

func (d *canvasDisplayer) SetPixel(x, y int16, c color.RGBA) {
	cx, cy := int(x), int(y)
	if !d.clip.contains(cx, cy) || cx < 0 || cx >= CanvasWidth || cy < 0 || cy >= CanvasHeight {
		return
	}
	fb := d.r.fb
	fx, fy := cx+d.r.ox, cy+d.r.oy
	if fx >= fb.Width() || fy >= fb.Height() {
		return
	}
	buf := fb.Buffer()
	off := fy*fb.StrideBytes() + fx*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	pixel := rgb565From888(c.R, c.G, c.B)
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d *canvasDisplayer) Display() error { return nil }

func wrapText(f tinyfont.Fonter, s string, maxW int) []string {
	s = strings.TrimSpace(s)
	if s == "" || maxW <= 0 {
		return nil
	}
	if textWidth(f, s) <= maxW {
		return []string{s}
	}

	var out []string
	cur := ""
	for _, word := range strings.Fields(s) {
		next := word
		if cur != "" {
			next = cur + " " + word
		}
		if textWidth(f, next) <= maxW {
			cur = next
			continue
		}
		if cur != "" {
			out = append(out, cur)
			cur = ""
		}
		if textWidth(f, word) <= maxW {
			cur = word
			continue
		}

		// Hard-wrap long words.
		rs := []rune(word)
		for len(rs) > 0 {
			n := len(rs)
			for n > 1 && textWidth(f, string(rs[:n])) > maxW {
				n--
			}
			out = append(out, string(rs[:n]))
			rs = rs[n:]
		}
	}
	if cur != "" {
		out = append(out, cur)
	}
	return out
}

func textWidth(f tinyfont.Fonter, s string) int {
	w, _ := tinyfont.LineWidth(f, s)
	return int(w)
}

func fillRectRGB565(buf []byte, stride, x0, y0, w, h int, pixel uint16) {
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for y := 0; y < h; y++ {
		row := (y0+y)*stride + x0*2
		for x := 0; x < w; x++ {
			off := row + x*2
			if off < 0 || off+1 >= len(buf) {
				continue
			}
			buf[off] = lo
			buf[off+1] = hi
		}
	}
}

// invertRectRGB565 flips every bit of the pixels in the rectangle.
func invertRectRGB565(buf []byte, stride, x0, y0, w, h int) {
	for y := 0; y < h; y++ {
		row := (y0+y)*stride + x0*2
		for x := 0; x < w; x++ {
			off := row + x*2
			if off < 0 || off+1 >= len(buf) {
				continue
			}
			buf[off] = ^buf[off]
			buf[off+1] = ^buf[off+1]
		}
	}
}

func rgb565From888(r, g, b uint8) uint16 {
	return uint16((uint16(r>>3)&0x1F)<<11 | (uint16(g>>2)&0x3F)<<5 | (uint16(b>>3) & 0x1F))
}
