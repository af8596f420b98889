package ico

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"

	"github.com/jsummers/gobmp"
)

const (
	fileHeaderLen   = 14
	infoHeaderLen   = 40
	v4InfoHeaderLen = 108

	biBitfields = 3
)

// decodeDIB turns an icon bitmap into a BMP stream and decodes it. The DIB
// height covers the XOR bitmap and the AND mask; only the XOR half is kept.
// 32-bit bitmaps are promoted to a V4 header with explicit channel masks so
// their alpha byte is used.
func decodeDIB(dib []byte) (image.Image, error) {
	if len(dib) < infoHeaderLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidDIB, len(dib))
	}

	le := binary.LittleEndian
	infoLen := le.Uint32(dib[0:4])
	if infoLen < infoHeaderLen || int(infoLen) > len(dib) {
		return nil, fmt.Errorf("%w: header size %d", ErrInvalidDIB, infoLen)
	}

	info := append([]byte(nil), dib[:infoLen]...)
	body := dib[infoLen:]

	height := int32(le.Uint32(info[8:12]))
	if height <= 0 || height%2 != 0 {
		return nil, fmt.Errorf("%w: height %d", ErrInvalidDIB, height)
	}
	le.PutUint32(info[8:12], uint32(height/2))

	bpp := le.Uint16(info[14:16])
	if bpp == 32 && infoLen == infoHeaderLen {
		v4 := make([]byte, v4InfoHeaderLen)
		copy(v4, info)
		le.PutUint32(v4[0:4], v4InfoHeaderLen)
		le.PutUint32(v4[16:20], biBitfields)
		le.PutUint32(v4[40:44], 0x00FF0000)
		le.PutUint32(v4[44:48], 0x0000FF00)
		le.PutUint32(v4[48:52], 0x000000FF)
		le.PutUint32(v4[52:56], 0xFF000000)
		info = v4
	}

	paletteLen := 0
	if bpp >= 1 && bpp <= 8 {
		colors := int(le.Uint32(info[32:36]))
		if colors == 0 || colors > 1<<bpp {
			colors = 1 << bpp
		}
		paletteLen = colors * 4
	}
	if paletteLen > len(body) {
		return nil, fmt.Errorf("%w: palette of %d bytes exceeds entry", ErrInvalidDIB, paletteLen)
	}

	var buf bytes.Buffer
	buf.Grow(fileHeaderLen + len(info) + len(body))
	buf.WriteString("BM")
	_ = binary.Write(&buf, le, uint32(fileHeaderLen+len(info)+len(body)))
	_ = binary.Write(&buf, le, uint32(0))
	_ = binary.Write(&buf, le, uint32(fileHeaderLen+len(info)+paletteLen))
	buf.Write(info)
	buf.Write(body)

	img, err := gobmp.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("%w: bmp: %v", ErrDecodeEntry, err)
	}

	return img, nil
}
