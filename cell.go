package vtcore

import "image/color"

// CellFlags is a bitmask of boolean cell rendering attributes. Underline is
// not represented here: it is a small closed enumeration (UnderlineStyle),
// not an independent on/off bit, so it cannot be set in two conflicting
// states at once.
type CellFlags uint16

const (
	CellFlagBold CellFlags = 1 << iota
	CellFlagDim
	CellFlagItalic
	CellFlagBlinkSlow
	CellFlagBlinkFast
	CellFlagReverse
	CellFlagHidden
	CellFlagStrike
	CellFlagWideChar
	CellFlagWideCharSpacer
	CellFlagDirty
)

// UnderlineStyle enumerates the shapes a cell's underline can take. Zero
// value is UnderlineNone.
type UnderlineStyle uint8

const (
	UnderlineNone UnderlineStyle = iota
	UnderlineSingle
	UnderlineDouble
	UnderlineCurly
	UnderlineDotted
	UnderlineDashed
)

// Cell is one grid position: a grapheme plus the rendering attributes that
// apply to it. A wide glyph occupies two adjacent cells; the left one carries
// CellFlagWideChar and the right one is a continuation stub flagged
// CellFlagWideCharSpacer.
type Cell struct {
	Char           rune
	Fg             color.Color
	Bg             color.Color
	UnderlineColor color.Color
	Underline      UnderlineStyle
	Flags          CellFlags
	Hyperlink      *Hyperlink
	Image          *CellImage
}

// Hyperlink associates a cell with a clickable link target (OSC 8).
type Hyperlink struct {
	ID  string
	URI string
}

// blankCell returns the value every Cell starts from: a space on the default
// foreground/background, with no attributes, link, or image reference.
func blankCell() Cell {
	return Cell{
		Char: ' ',
		Fg:   &NamedColor{Name: NamedColorForeground},
		Bg:   &NamedColor{Name: NamedColorBackground},
	}
}

// NewCell returns a blank cell: space character, default colors, no attributes.
func NewCell() Cell {
	return blankCell()
}

// Reset restores a cell to its blank state in place.
func (c *Cell) Reset() {
	*c = blankCell()
}

func (c *Cell) HasFlag(flag CellFlags) bool {
	return c.Flags&flag != 0
}

func (c *Cell) SetFlag(flag CellFlags) {
	c.Flags |= flag
}

func (c *Cell) ClearFlag(flag CellFlags) {
	c.Flags &^= flag
}

func (c *Cell) IsDirty() bool {
	return c.HasFlag(CellFlagDirty)
}

func (c *Cell) MarkDirty() {
	c.SetFlag(CellFlagDirty)
}

func (c *Cell) ClearDirty() {
	c.ClearFlag(CellFlagDirty)
}

// IsWide reports whether this cell holds the left half of a two-column glyph.
func (c *Cell) IsWide() bool {
	return c.HasFlag(CellFlagWideChar)
}

// IsWideSpacer reports whether this cell is the trailing stub of a wide glyph
// and should be skipped by anything walking the row left to right.
func (c *Cell) IsWideSpacer() bool {
	return c.HasFlag(CellFlagWideCharSpacer)
}

// Copy returns a shallow value copy; Hyperlink and Image are shared pointers,
// which is fine since both are treated as immutable once attached to a cell.
func (c *Cell) Copy() Cell {
	return *c
}

// HasImage reports whether a Kitty graphics placement has assigned this cell
// a slice of its image (a CellImage with UV coordinates).
func (c *Cell) HasImage() bool {
	return c.Image != nil
}
