package dds

import (
	"errors"
	"fmt"
	"io"

	"github.com/woozymasta/bcn"
)

const (
	// Magic is the four-byte DDS file tag.
	Magic = "DDS "

	// HeaderSize is the magic plus the DDS_HEADER structure.
	HeaderSize = 4 + bcn.DDSHeaderSize

	requiredFlags = uint32(bcn.DDSFlagCaps | bcn.DDSFlagHeight | bcn.DDSFlagWidth | bcn.DDSFlagPixelFormat)
	requiredCaps  = uint32(bcn.DDSCapsTexture)

	pfAlphaPixels = uint32(bcn.DDSPFAlphaPixels)
	pfFourCC      = uint32(bcn.DDSPFFourCC)
)

// Header is the DDS_HEADER structure that follows the magic.
type Header = bcn.DDSHeader

// PixelFormat is the DDS_PIXELFORMAT sub-structure.
type PixelFormat = bcn.DDSPixelFormat

// readHeader reads and validates the 128-byte DDS header. The magic is
// checked before the rest of the header is read.
func readHeader(r io.Reader) (*Header, error) {
	h, err := bcn.ReadDDSHeader(r)
	switch {
	case err == nil:
	case errors.Is(err, bcn.ErrInvalidDDSMagic):
		return nil, ErrBadMagic
	case errors.Is(err, bcn.ErrInvalidDDSHeaderSize):
		return nil, ErrHeaderSize
	case errors.Is(err, bcn.ErrInvalidDDSPixelFormatSize):
		return nil, ErrPixelFormatSize
	default:
		return nil, fmt.Errorf("%w: header: %v", ErrTruncatedData, err)
	}

	if err := validateHeader(h); err != nil {
		return nil, err
	}

	return h, nil
}

// validateHeader checks the flag and caps bits bcn leaves to the caller.
func validateHeader(h *Header) error {
	if h.Flags&requiredFlags != requiredFlags {
		return fmt.Errorf("%w: %08x", ErrHeaderFlags, h.Flags)
	}
	if h.Caps&requiredCaps != requiredCaps {
		return fmt.Errorf("%w: %08x", ErrHeaderCaps, h.Caps)
	}

	return nil
}
