package watchface

// Screen is the retained UI model: field texts, hidden flags and the overlay.
// Visual effects mutate it; the renderer paints it.
type Screen struct {
	text    [fieldCount]string
	hidden  [fieldCount]bool
	overlay bool
}

func NewScreen() *Screen { return &Screen{} }

func (s *Screen) Text(f Field) string {
	if f >= fieldCount {
		return ""
	}
	return s.text[f]
}

func (s *Screen) Hidden(f Field) bool {
	if f >= fieldCount {
		return false
	}
	return s.hidden[f]
}

func (s *Screen) Overlay() bool { return s.overlay }

// Apply applies a visual effect and reports whether the screen changed.
// Non-visual effects are ignored.
func (s *Screen) Apply(e Effect) bool {
	switch e := e.(type) {
	case SetText:
		if e.Field >= fieldCount || s.text[e.Field] == e.Text {
			return false
		}
		s.text[e.Field] = e.Text
		return true
	case SetHidden:
		changed := false
		for _, f := range e.Fields {
			if f < fieldCount && s.hidden[f] != e.Hidden {
				s.hidden[f] = e.Hidden
				changed = true
			}
		}
		return changed
	case SetOverlay:
		if s.overlay == e.On {
			return false
		}
		s.overlay = e.On
		return true
	default:
		return false
	}
}
