package vtcore

// CharsetIndex selects one of the four G0-G3 character-set slots a buffer
// tracks; CSI/ESC sequences choose which slot is active and load a Charset
// into one of them.
type CharsetIndex int

const (
	CharsetIndexG0 CharsetIndex = iota
	CharsetIndexG1
	CharsetIndexG2
	CharsetIndexG3
)

// Charset is the character-set variant loaded into a G0-G3 slot.
type Charset int

const (
	CharsetASCII Charset = iota
	CharsetLineDrawing
)

// CursorStyle mirrors ansicode.CursorStyle's numeric layout (DECSCUSR
// parameter order) so SetCursorStyle can cast directly between the two
// without a translation table.
type CursorStyle int

const (
	CursorStyleBlinkingBlock CursorStyle = iota
	CursorStyleSteadyBlock
	CursorStyleBlinkingUnderline
	CursorStyleSteadyUnderline
	CursorStyleBlinkingBar
	CursorStyleSteadyBar
)

// Cursor is a buffer's position and rendering state, in 0-based coordinates.
// The pending-wrap latch is not a field here: it is represented implicitly
// by Col reaching Cols (see Terminal.Input), matching the DEC behavior that
// a write at the right margin defers wrapping until the next printable.
type Cursor struct {
	Row     int
	Col     int
	Style   CursorStyle
	Visible bool
}

// NewCursor returns a cursor at the origin: visible, blinking block style.
func NewCursor() *Cursor {
	return &Cursor{Style: CursorStyleBlinkingBlock, Visible: true}
}

// CellTemplate is the attribute state SGR sequences accumulate and that gets
// stamped onto every cell written from this point forward.
type CellTemplate struct {
	Cell
}

// NewCellTemplate returns a template at the SGR-reset default: no colors
// beyond the named defaults, no attributes.
func NewCellTemplate() CellTemplate {
	return CellTemplate{Cell: NewCell()}
}

// SavedCursor is the DECSC/DECRC snapshot: position, pending attribute
// state, origin mode, and charset slots, captured so DECRC (or an
// alternate-screen switch) can restore them verbatim.
type SavedCursor struct {
	Row          int
	Col          int
	Attrs        CellTemplate
	OriginMode   bool
	CharsetIndex int
	Charsets     [4]Charset
}
