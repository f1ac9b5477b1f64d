package app

import (
	"fmt"
	"image/color"
	"strings"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freesans"

	"sparkwatch/hal"
	"sparkwatch/sparkos/kernel"
)

// installPanicHandler logs a task panic and paints it on the display. The
// kernel stays in panic mode afterwards; the host keeps presenting the frame.
func installPanicHandler(h hal.HAL) {
	kernel.SetPanicHandler(func(info kernel.PanicInfo) {
		lines := panicLines(info)
		if l := h.Logger(); l != nil {
			for _, line := range lines {
				l.WriteLineString(line)
			}
		}

		disp := h.Display()
		if disp == nil {
			return
		}
		fb := disp.Framebuffer()
		if fb == nil {
			return
		}
		drawPanic(fb, lines)
		_ = fb.Present()
	})
}

func panicLines(info kernel.PanicInfo) []string {
	lines := []string{
		"sparkwatch panic",
		fmt.Sprintf("task: %d", info.TaskID),
		fmt.Sprintf("panic: %v", info.Value),
	}
	if len(info.Stack) == 0 {
		return append(lines, "stack: unavailable")
	}
	lines = append(lines, "stack:")
	for _, line := range strings.Split(string(info.Stack), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func drawPanic(fb hal.Framebuffer, lines []string) {
	fb.ClearRGB(255, 255, 255)

	font := &freesans.Regular9pt7b
	lineH := int16(font.GetYAdvance())
	if lineH <= 0 {
		return
	}
	d := panicDisplay{fb: fb}
	fg := color.RGBA{A: 255}
	maxW := fb.Width() - 4

	y := lineH
	for _, line := range lines {
		for line != "" {
			if int(y) > fb.Height() {
				return
			}
			chunk, rest := fitWidth(font, line, maxW)
			tinyfont.WriteLine(d, font, 2, y, chunk, fg)
			y += lineH
			line = strings.TrimLeft(rest, " ")
		}
	}
}

// fitWidth splits s after the longest prefix that fits maxW pixels. At least
// one rune is always taken.
func fitWidth(f tinyfont.Fonter, s string, maxW int) (prefix, rest string) {
	if w, _ := tinyfont.LineWidth(f, s); int(w) <= maxW {
		return s, ""
	}
	rs := []rune(s)
	n := len(rs)
	for n > 1 {
		if w, _ := tinyfont.LineWidth(f, string(rs[:n])); int(w) <= maxW {
			break
		}
		n--
	}
	return string(rs[:n]), string(rs[n:])
}

type panicDisplay struct {
	fb hal.Framebuffer
}

func (d panicDisplay) Size() (x, y int16) {
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d panicDisplay) SetPixel(x, y int16, c color.RGBA) {
	if d.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := d.fb.Buffer()
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= d.fb.Width() || iy < 0 || iy >= d.fb.Height() {
		return
	}
	pixel := uint16((uint16(c.R>>3)&0x1F)<<11 | (uint16(c.G>>2)&0x3F)<<5 | (uint16(c.B>>3) & 0x1F))
	off := iy*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d panicDisplay) Display() error { return nil }
