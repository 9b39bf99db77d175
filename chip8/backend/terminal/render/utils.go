package render

const (
	UpperHalfBlock = '▀'
	FullBlock      = '█'
)

// HalfBlock packs two vertically adjacent pixels into one terminal cell.
// The returned rune is drawn with fg as foreground and bg as background.
func HalfBlock(top, bottom uint32) (char rune, fg, bg uint32) {
	if top == bottom {
		return FullBlock, top, top
	}
	return UpperHalfBlock, top, bottom
}
