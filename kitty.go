package vtcore

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// KittyAction is the "a=" key of a Kitty graphics command: what the
// terminal should do with the rest of the payload.
type KittyAction byte

const (
	KittyActionTransmit        KittyAction = 't' // upload image data only
	KittyActionTransmitDisplay KittyAction = 'T' // upload and place in one step
	KittyActionQuery           KittyAction = 'q' // ask whether the protocol is supported
	KittyActionDisplay         KittyAction = 'p' // place an already-uploaded image
	KittyActionDelete          KittyAction = 'd' // delete image(s) and/or placement(s)
	KittyActionFrame           KittyAction = 'f' // upload one frame of an animation
	KittyActionAnimate         KittyAction = 'a' // control animation playback
	KittyActionCompose         KittyAction = 'c' // compose animation frames together
)

// KittyTransmission is the "t=" key: where the image bytes actually live.
// This library only services KittyTransmitDirect; file/shm-backed
// transmissions are rejected rather than silently misread.
type KittyTransmission byte

const (
	KittyTransmitDirect    KittyTransmission = 'd'
	KittyTransmitFile      KittyTransmission = 'f'
	KittyTransmitTempFile  KittyTransmission = 't'
	KittyTransmitSharedMem KittyTransmission = 's'
)

// KittyFormat is the "f=" key: the pixel encoding of the transmitted bytes,
// before any compression. An ImageDecoder turns this plus the raw bytes
// into RGBA pixels.
type KittyFormat uint32

const (
	KittyFormatRGB  KittyFormat = 24
	KittyFormatRGBA KittyFormat = 32
	KittyFormatPNG  KittyFormat = 100
)

// KittyDelete is the "d=" key of a delete action: what scope of images and
// placements to remove. In the protocol, uppercase variants also drop the
// underlying image data; the terminal does so for 'A' and 'I' only (see
// Terminal.kittyDelete).
type KittyDelete byte

const (
	KittyDeleteAll          KittyDelete = 'a'
	KittyDeleteAllWithData  KittyDelete = 'A'
	KittyDeleteByID         KittyDelete = 'i'
	KittyDeleteByIDWithData KittyDelete = 'I'
	KittyDeleteByNumber     KittyDelete = 'n'
	KittyDeleteByNumData    KittyDelete = 'N'
	KittyDeleteAtCursor     KittyDelete = 'c'
	KittyDeleteAtCursorData KittyDelete = 'C'
	KittyDeleteAtPos        KittyDelete = 'p'
	KittyDeleteAtPosData    KittyDelete = 'P'
	KittyDeleteByCol        KittyDelete = 'x'
	KittyDeleteByColData    KittyDelete = 'X'
	KittyDeleteByRow        KittyDelete = 'y'
	KittyDeleteByRowData    KittyDelete = 'Y'
	KittyDeleteByZIndex     KittyDelete = 'z'
	KittyDeleteByZIndexData KittyDelete = 'Z'
)

// KittyCommand is a single Kitty graphics APC command, decoded from its
// comma-separated key=value control data plus an optional base64 payload.
type KittyCommand struct {
	Action       KittyAction
	Transmission KittyTransmission
	Format       KittyFormat
	Compression  byte // 'z' for zlib-compressed payload, 0 otherwise

	ImageID     uint32 // i=
	ImageNumber uint32 // I=
	PlacementID uint32 // p=

	Width  uint32 // s= source width in pixels
	Height uint32 // v= source height in pixels
	Size   uint32 // S= data size, for file/shm transmissions
	Offset uint32 // O= data offset, for file/shm transmissions
	More   bool   // m= more chunks of this transmission follow

	SrcX, SrcY      uint32 // x=, y= source region origin
	SrcW, SrcH      uint32 // w=, h= source region size
	Cols, Rows      uint32 // c=, r= target cell span
	CellOffsetX     uint32 // X= pixel offset within the first cell
	CellOffsetY     uint32 // Y= pixel offset within the first cell
	ZIndex          int32  // z= stacking order among placements
	DoNotMoveCursor bool   // C= 1 means leave the cursor where it was

	Delete KittyDelete // d=

	Quiet uint32 // q= 0 full response, 1 errors only, 2 no response

	Payload []byte // base64-decoded bytes following the ';' separator
}

// kittyKeyHandlers maps each single-byte control key to the setter that
// applies its value to a KittyCommand. Keeping this as a table rather than
// a long switch makes ParseKittyGraphics's loop just "look up and call".
var kittyKeyHandlers = map[byte]func(cmd *KittyCommand, value []byte){
	'a': func(cmd *KittyCommand, v []byte) {
		if len(v) > 0 {
			cmd.Action = KittyAction(v[0])
		}
	},
	't': func(cmd *KittyCommand, v []byte) {
		if len(v) > 0 {
			cmd.Transmission = KittyTransmission(v[0])
		}
	},
	'f': func(cmd *KittyCommand, v []byte) { cmd.Format = KittyFormat(parseKittyUint(v)) },
	'o': func(cmd *KittyCommand, v []byte) {
		if len(v) > 0 {
			cmd.Compression = v[0]
		}
	},
	'i': func(cmd *KittyCommand, v []byte) { cmd.ImageID = parseKittyUint(v) },
	'I': func(cmd *KittyCommand, v []byte) { cmd.ImageNumber = parseKittyUint(v) },
	'p': func(cmd *KittyCommand, v []byte) { cmd.PlacementID = parseKittyUint(v) },
	's': func(cmd *KittyCommand, v []byte) { cmd.Width = parseKittyUint(v) },
	'v': func(cmd *KittyCommand, v []byte) { cmd.Height = parseKittyUint(v) },
	'S': func(cmd *KittyCommand, v []byte) { cmd.Size = parseKittyUint(v) },
	'O': func(cmd *KittyCommand, v []byte) { cmd.Offset = parseKittyUint(v) },
	'm': func(cmd *KittyCommand, v []byte) { cmd.More = parseKittyUint(v) == 1 },
	'x': func(cmd *KittyCommand, v []byte) { cmd.SrcX = parseKittyUint(v) },
	'y': func(cmd *KittyCommand, v []byte) { cmd.SrcY = parseKittyUint(v) },
	'w': func(cmd *KittyCommand, v []byte) { cmd.SrcW = parseKittyUint(v) },
	'h': func(cmd *KittyCommand, v []byte) { cmd.SrcH = parseKittyUint(v) },
	'c': func(cmd *KittyCommand, v []byte) { cmd.Cols = parseKittyUint(v) },
	'r': func(cmd *KittyCommand, v []byte) { cmd.Rows = parseKittyUint(v) },
	'X': func(cmd *KittyCommand, v []byte) { cmd.CellOffsetX = parseKittyUint(v) },
	'Y': func(cmd *KittyCommand, v []byte) { cmd.CellOffsetY = parseKittyUint(v) },
	'z': func(cmd *KittyCommand, v []byte) { cmd.ZIndex = parseKittyInt(v) },
	'C': func(cmd *KittyCommand, v []byte) { cmd.DoNotMoveCursor = parseKittyUint(v) == 1 },
	'd': func(cmd *KittyCommand, v []byte) {
		if len(v) > 0 {
			cmd.Delete = KittyDelete(v[0])
		}
	},
	'q': func(cmd *KittyCommand, v []byte) { cmd.Quiet = parseKittyUint(v) },
}

// ParseKittyGraphics parses a Kitty graphics APC sequence. data is the
// content between the ESC_G prefix and the ST terminator, with an optional
// leading 'G' already present or stripped by the caller either way.
func ParseKittyGraphics(data []byte) (*KittyCommand, error) {
	cmd := &KittyCommand{
		Action:       KittyActionTransmitDisplay,
		Transmission: KittyTransmitDirect,
		Format:       KittyFormatRGBA,
	}

	if len(data) > 0 && data[0] == 'G' {
		data = data[1:]
	}

	controlData, payload := splitKittyControlAndPayload(data)
	for _, pair := range bytes.Split(controlData, []byte(",")) {
		eqIdx := bytes.IndexByte(pair, '=')
		if eqIdx <= 0 {
			continue
		}
		if handler, ok := kittyKeyHandlers[pair[0]]; ok {
			handler(cmd, pair[eqIdx+1:])
		}
	}

	if len(payload) > 0 {
		decoded, err := decodeKittyBase64(payload)
		if err != nil {
			return nil, fmt.Errorf("kitty: decode payload: %w", err)
		}
		cmd.Payload = decoded
	}

	return cmd, nil
}

// splitKittyControlAndPayload divides data at the first ';' into the
// comma-separated control keys and the trailing base64 payload. A command
// with no payload (a delete, or a query) simply has no separator.
func splitKittyControlAndPayload(data []byte) (control, payload []byte) {
	if idx := bytes.IndexByte(data, ';'); idx >= 0 {
		return data[:idx], data[idx+1:]
	}
	return data, nil
}

// decodeKittyBase64 accepts both padded and unpadded base64, since clients
// disagree about whether to pad the final chunk.
func decodeKittyBase64(payload []byte) ([]byte, error) {
	if decoded, err := base64.StdEncoding.DecodeString(string(payload)); err == nil {
		return decoded, nil
	}
	return base64.RawStdEncoding.DecodeString(string(payload))
}

func parseKittyUint(b []byte) uint32 {
	n, _ := strconv.ParseUint(string(b), 10, 32)
	return uint32(n)
}

func parseKittyInt(b []byte) int32 {
	n, _ := strconv.ParseInt(string(b), 10, 32)
	return int32(n)
}

// FormatKittyResponse builds the APC reply to a Kitty graphics command:
// "OK" on success, or the given error message when isError is set.
func FormatKittyResponse(imageID uint32, message string, isError bool) string {
	var sb strings.Builder
	sb.WriteString("\x1b_G")
	if imageID > 0 {
		fmt.Fprintf(&sb, "i=%d", imageID)
	}
	sb.WriteByte(';')
	if isError {
		sb.WriteString(message)
	} else {
		sb.WriteString("OK")
	}
	sb.WriteString("\x1b\\")
	return sb.String()
}
