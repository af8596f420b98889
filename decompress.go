package dds

import (
	"fmt"
	"image"
	"image/color"

	"github.com/woozymasta/bcn"
)

const (
	blockSize      = 4
	dxt1BlockBytes = 8
)

// BlockDecompressor decodes one row of DXT1 blocks.
//
// row holds 8 bytes per 4x4 block. The result is four pixel rows of RGB
// data, each len(row)/8*4*3 bytes long.
type BlockDecompressor interface {
	DecompressRow(row []byte) ([4][]byte, error)
}

// BlockDecompressorFunc adapts a function to BlockDecompressor.
type BlockDecompressorFunc func(row []byte) ([4][]byte, error)

// DecompressRow calls f(row).
func (f BlockDecompressorFunc) DecompressRow(row []byte) ([4][]byte, error) {
	return f(row)
}

// DXT1Decompressor decodes DXT1 block rows with bcn.
type DXT1Decompressor struct {
	// Options are passed to the BCn decoder (e.g. Workers).
	Options *bcn.DecodeOptions
}

// DecompressRow implements BlockDecompressor.
func (d DXT1Decompressor) DecompressRow(row []byte) ([4][]byte, error) {
	var out [4][]byte
	if len(row) == 0 || len(row)%dxt1BlockBytes != 0 {
		return out, fmt.Errorf("%w: row of %d bytes", ErrDecompressor, len(row))
	}
	blocks := len(row) / dxt1BlockBytes

	width := blocks * blockSize
	img, err := bcn.DecodeImageWithOptions(row, width, blockSize, bcn.FormatDXT1, d.Options)
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrDecompressor, err)
	}

	for y := 0; y < blockSize; y++ {
		out[y] = rgbRow(img, y, width)
	}

	return out, nil
}

// rgbRow extracts row y of img as packed RGB.
func rgbRow(img image.Image, y, width int) []byte {
	line := make([]byte, width*3)
	b := img.Bounds()

	if nrgba, ok := img.(*image.NRGBA); ok {
		src := nrgba.Pix[nrgba.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < width; x++ {
			copy(line[x*3:x*3+3], src[x*4:x*4+3])
		}
		return line
	}

	for x := 0; x < width; x++ {
		c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
		line[x*3] = c.R
		line[x*3+1] = c.G
		line[x*3+2] = c.B
	}

	return line
}
