package annotate

// Viewport widths at or below which the narrow layouts apply.
const (
	MobileMaxWidth = 480
	TabletMaxWidth = 800
)

// Viewport classifies the drawing surface width.
type Viewport int

// Viewport classes.
const (
	Desktop Viewport = iota
	Tablet
	Mobile
)

// ViewportFor classifies a surface width in pixels.
func ViewportFor(width float64) Viewport {
	switch {
	case width <= MobileMaxWidth:
		return Mobile
	case width <= TabletMaxWidth:
		return Tablet
	default:
		return Desktop
	}
}

// Narrow reports whether markers stack vertically instead of pushing apart.
func (v Viewport) Narrow() bool {
	return v == Mobile || v == Tablet
}

func (v Viewport) String() string {
	switch v {
	case Mobile:
		return "mobile"
	case Tablet:
		return "tablet"
	default:
		return "desktop"
	}
}
