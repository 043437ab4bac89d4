package vtcore

import "io"

// Providers are the seams a host application uses to observe or steer
// terminal behavior that has no sensible in-library default: writing
// responses back to the PTY, ringing a bell, persisting scrollback, and so
// on. Every provider has a Noop implementation so a Terminal can be built
// without wiring any of them up.

// ResponseProvider writes terminal responses (cursor position reports,
// Kitty graphics acknowledgements, DA/DSR replies) back to the PTY.
type ResponseProvider = io.Writer

// NoopResponse discards all response data.
type NoopResponse struct{}

func (NoopResponse) Write(p []byte) (int, error) { return len(p), nil }

// --- Bell ---

// BellProvider is notified on a BEL (0x07) byte.
type BellProvider interface {
	Ring()
}

// NoopBell ignores bell events.
type NoopBell struct{}

func (NoopBell) Ring() {}

// --- Title ---

// TitleProvider handles window title changes (OSC 0, 1, 2) and the title
// stack (XTWINOPS 22/23).
type TitleProvider interface {
	SetTitle(title string)
	PushTitle()
	PopTitle()
}

// NoopTitle ignores title operations.
type NoopTitle struct{}

func (NoopTitle) SetTitle(title string) {}
func (NoopTitle) PushTitle()            {}
func (NoopTitle) PopTitle()             {}

// --- APC / PM / SOS ---

// APCProvider receives the payload of an Application Program Command
// sequence not claimed by the Kitty graphics protocol.
type APCProvider interface {
	Receive(data []byte)
}

// NoopAPC discards APC payloads.
type NoopAPC struct{}

func (NoopAPC) Receive(data []byte) {}

// PMProvider receives the payload of a Privacy Message sequence.
type PMProvider interface {
	Receive(data []byte)
}

// NoopPM discards PM payloads.
type NoopPM struct{}

func (NoopPM) Receive(data []byte) {}

// SOSProvider receives the payload of a Start-of-String sequence.
type SOSProvider interface {
	Receive(data []byte)
}

// NoopSOS discards SOS payloads.
type NoopSOS struct{}

func (NoopSOS) Receive(data []byte) {}

// --- Clipboard ---

// ClipboardProvider backs OSC 52 clipboard read/write requests.
// clipboard is 'c' for the system clipboard or 'p' for the primary
// selection.
type ClipboardProvider interface {
	Read(clipboard byte) string
	Write(clipboard byte, data []byte)
}

// NoopClipboard ignores clipboard reads and writes.
type NoopClipboard struct{}

func (NoopClipboard) Read(clipboard byte) string        { return "" }
func (NoopClipboard) Write(clipboard byte, data []byte) {}

// --- Scrollback ---

// ScrollbackProvider stores lines scrolled off the top of the primary
// buffer. The alternate buffer is always given NoopScrollback since DEC
// terminals never retain alt-screen history.
type ScrollbackProvider interface {
	// Push appends a line; implementations should evict the oldest line
	// once MaxLines is exceeded.
	Push(line []Cell)
	Len() int
	// Line returns the line at index (0 = oldest), or nil if out of range.
	Line(index int) []Cell
	Clear()
	SetMaxLines(max int)
	MaxLines() int
}

// NoopScrollback discards every pushed line and reports zero capacity.
type NoopScrollback struct{}

func (NoopScrollback) Push(line []Cell)      {}
func (NoopScrollback) Len() int              { return 0 }
func (NoopScrollback) Line(index int) []Cell { return nil }
func (NoopScrollback) Clear()                {}
func (NoopScrollback) SetMaxLines(max int)   {}
func (NoopScrollback) MaxLines() int         { return 0 }

// --- Recording ---

// RecordingProvider captures raw PTY bytes before ANSI parsing, for session
// replay or debugging.
type RecordingProvider interface {
	Record(data []byte)
	// Data returns everything captured since the last Clear.
	Data() []byte
	Clear()
}

// NoopRecording discards all recorded input.
type NoopRecording struct{}

func (NoopRecording) Record([]byte) {}
func (NoopRecording) Data() []byte  { return nil }
func (NoopRecording) Clear()        {}

// --- Pixel size ---

// SizeProvider reports the pixel size of one character cell. Kitty image
// placements use it to work out how many cells an image spans; a
// non-positive width or height falls back to 10x20.
type SizeProvider interface {
	CellSizePixels() (width, height int)
}

var (
	_ ResponseProvider   = NoopResponse{}
	_ BellProvider       = (*NoopBell)(nil)
	_ TitleProvider      = (*NoopTitle)(nil)
	_ APCProvider        = (*NoopAPC)(nil)
	_ PMProvider         = (*NoopPM)(nil)
	_ SOSProvider        = (*NoopSOS)(nil)
	_ ClipboardProvider  = (*NoopClipboard)(nil)
	_ ScrollbackProvider = (*NoopScrollback)(nil)
	_ RecordingProvider  = (*NoopRecording)(nil)
)
