package hal

import "testing"

func TestRGB565RoundTripPrimaries(t *testing.T) {
	cases := []struct {
		r, g, b uint8
		want    uint16
	}{
		{0xFF, 0xFF, 0xFF, 0xFFFF},
		{0, 0, 0, 0},
		{0xFF, 0, 0, 0xF800},
		{0, 0xFF, 0, 0x07E0},
		{0, 0, 0xFF, 0x001F},
	}
	for _, c := range cases {
		p := rgb565(c.r, c.g, c.b)
		if p != c.want {
			t.Fatalf("rgb565(%d,%d,%d) = %#04x, want %#04x", c.r, c.g, c.b, p, c.want)
		}
		r, g, b := rgb888From565(p)
		if r != c.r || g != c.g || b != c.b {
			t.Fatalf("rgb888From565(%#04x) = %d,%d,%d", p, r, g, b)
		}
	}
}

func TestRGBAFrom565(t *testing.T) {
	src := []byte{0x00, 0xF8, 0x1F, 0x00}
	dst := make([]byte, 8)
	rgbaFrom565(dst, src)
	want := []byte{0xFF, 0, 0, 0xFF, 0, 0, 0xFF, 0xFF}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst = %v, want %v", dst, want)
		}
	}
}
