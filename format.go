package dds

import (
	"fmt"
	"strings"
)

// Mode is the color mode of a decoded image.
type Mode string

const (
	// ModeRGB is 3 bytes per pixel, R, G, B.
	ModeRGB Mode = "RGB"
	// ModeRGBA is 4 bytes per pixel, R, G, B, A.
	ModeRGBA Mode = "RGBA"
)

// Channels returns bytes per pixel for the mode.
func (m Mode) Channels() int {
	if m == ModeRGBA {
		return 4
	}

	return 3
}

const fourCCDXT1 = "DXT1"

// layout is the decode path picked once when the header is opened.
type layout interface {
	// payloadSize is the number of payload bytes the top level occupies.
	payloadSize(width, height int) (int, error)
	String() string
}

// compressedLayout is opaque DXT1 (BC1) data.
type compressedLayout struct{}

func (compressedLayout) payloadSize(width, height int) (int, error) {
	return bufferSize((width+3)/4, (height+3)/4, 8)
}

func (compressedLayout) String() string { return fourCCDXT1 }

// rawLayout is uncompressed data; order names the channel stored at each byte
// of a pixel, e.g. "BGRA".
type rawLayout struct {
	order string
}

func (l rawLayout) payloadSize(width, height int) (int, error) {
	return bufferSize(width, height, len(l.order))
}

func (l rawLayout) String() string { return l.order }

// selectLayout picks the decode path and output mode for a pixel format.
func selectLayout(pf PixelFormat) (layout, Mode, error) {
	if pf.Flags&pfFourCC != 0 {
		fourCC := intToFourCC(pf.FourCC)
		if fourCC != fourCCDXT1 {
			return nil, "", fmt.Errorf("%w: FourCC %q", ErrUnsupportedFormat, fourCC)
		}
		if pf.Flags&pfAlphaPixels != 0 {
			return nil, "", ErrDXT1Alpha
		}

		return compressedLayout{}, ModeRGB, nil
	}

	order, err := channelOrder(pf)
	if err != nil {
		return nil, "", err
	}

	// alpha pixels is bit 0 of the pixel format flags
	if pf.Flags%2 != 0 {
		return rawLayout{order: order}, ModeRGBA, nil
	}

	order = order[:3]
	if strings.IndexByte(order, 'A') >= 0 {
		return nil, "", fmt.Errorf("%w: %q", ErrMissingChannel, order)
	}

	return rawLayout{order: order}, ModeRGB, nil
}

// maskSlot maps a channel mask to the byte it selects in a little-endian
// pixel. Zero masks share the alpha slot.
func maskSlot(mask uint32) (int, bool) {
	switch mask {
	case 0x00000000, 0xff000000:
		return 3, true
	case 0x00ff0000:
		return 2, true
	case 0x0000ff00:
		return 1, true
	case 0x000000ff:
		return 0, true
	default:
		return 0, false
	}
}

// channelOrder resolves the four masks into a 4-letter channel order string.
func channelOrder(pf PixelFormat) (string, error) {
	masks := [4]uint32{pf.RBitMask, pf.GBitMask, pf.BBitMask, pf.ABitMask}
	var slots [4]byte

	for i, mask := range masks {
		channel := "RGBA"[i]
		slot, ok := maskSlot(mask)
		if !ok {
			return "", fmt.Errorf("%w: %c=0x%08x", ErrUnknownMask, channel, mask)
		}
		if slots[slot] != 0 {
			return "", fmt.Errorf("%w: %c and %c at byte %d", ErrDuplicateMask, slots[slot], channel, slot)
		}
		slots[slot] = channel
	}

	return string(slots[:]), nil
}

func intToFourCC(value uint32) string {
	return string([]byte{
		byte(value & 0xff),
		byte((value >> 8) & 0xff),
		byte((value >> 16) & 0xff),
		byte((value >> 24) & 0xff),
	})
}

func makeFourCC(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}
