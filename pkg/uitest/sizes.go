package uitest

// Size represents terminal dimensions.
type Size struct {
	Width  int
	Height int
}

// Terminal sizes used across UI tests.
var (
	Compact = Size{Width: 80, Height: 24}
	Wide    = Size{Width: 160, Height: 50}
)
