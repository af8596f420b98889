package dds

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/woozymasta/bcn"
)

// newTestHeader returns a minimal valid header for the given size.
func newTestHeader(width, height uint32) Header {
	h := Header{
		Size:   uint32(bcn.DDSHeaderSize),
		Flags:  requiredFlags,
		Width:  width,
		Height: height,
		Depth:  1,
		Caps:   requiredCaps,
	}
	h.PixelFormat.Size = uint32(bcn.DDSPixelFormatSize)

	return h
}

func dxt1Header(width, height uint32) Header {
	h := newTestHeader(width, height)
	h.Flags |= uint32(bcn.DDSFlagLinearSize)
	h.PixelFormat.Flags = pfFourCC
	h.PixelFormat.FourCC = makeFourCC('D', 'X', 'T', '1')

	return h
}

func rawHeader(width, height uint32, r, g, b, a uint32, alpha bool) Header {
	h := newTestHeader(width, height)
	h.Flags |= uint32(bcn.DDSFlagPitch)
	h.PixelFormat.Flags = uint32(bcn.DDSPFRGB)
	if alpha {
		h.PixelFormat.Flags |= pfAlphaPixels
		h.PixelFormat.RGBBitCount = 32
	} else {
		h.PixelFormat.RGBBitCount = 24
	}
	h.PixelFormat.RBitMask = r
	h.PixelFormat.GBitMask = g
	h.PixelFormat.BBitMask = b
	h.PixelFormat.ABitMask = a

	return h
}

// ddsFile serializes magic, header and payload.
func ddsFile(t testing.TB, h Header, payload []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	_, _ = buf.WriteString(Magic)
	if err := binary.Write(&buf, binary.LittleEndian, &h); err != nil {
		t.Fatalf("write header: %v", err)
	}
	if buf.Len() != HeaderSize {
		t.Fatalf("header is %d bytes, want %d", buf.Len(), HeaderSize)
	}
	_, _ = buf.Write(payload)

	return buf.Bytes()
}

// countingReader records how many bytes were consumed.
type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}

// gridDecompressor fills every decoded pixel with its global (x, y) so
// cropping can be checked byte by byte. It counts calls and row sizes.
type gridDecompressor struct {
	calls    int
	rowSizes []int
}

func gridValue(x, y int) byte { return byte(y*16 + x) }

func (g *gridDecompressor) DecompressRow(row []byte) ([4][]byte, error) {
	var out [4][]byte
	width := len(row) / dxt1BlockBytes * blockSize
	for i := range out {
		line := make([]byte, width*3)
		y := g.calls*blockSize + i
		for x := 0; x < width; x++ {
			v := gridValue(x, y)
			line[x*3], line[x*3+1], line[x*3+2] = v, v, v
		}
		out[i] = line
	}
	g.calls++
	g.rowSizes = append(g.rowSizes, len(row))

	return out, nil
}
