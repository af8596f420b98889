package dds

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

const canonicalOrder = "RGBA"

// decodeCompressed reads DXT1 block rows from r and crops the decoded rows to
// width x height RGB pixels. The row buffer is reused between calls to dec.
// The output grows one block row at a time, so a header promising more data
// than r holds fails before allocating the full image.
func decodeCompressed(r io.Reader, width, height int, dec BlockDecompressor) ([]byte, error) {
	if _, err := bufferSize(width, height, 3); err != nil {
		return nil, err
	}

	blocksW := (width + blockSize - 1) / blockSize
	blocksH := (height + blockSize - 1) / blockSize
	lineSize := width * 3

	row := make([]byte, blocksW*dxt1BlockBytes)
	var out []byte

	for yb := 0; yb < blocksH; yb++ {
		if _, err := io.ReadFull(r, row); err != nil {
			return nil, fmt.Errorf("%w: block row %d: %v", ErrTruncatedData, yb, err)
		}

		lines, err := dec.DecompressRow(row)
		if errors.Is(err, ErrDecompressor) {
			return nil, fmt.Errorf("block row %d: %w", yb, err)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: block row %d: %w", ErrDecompressor, yb, err)
		}

		out = slices.Grow(out, blockSize*lineSize)

		for i, line := range lines {
			// padding rows below the image
			if yb*blockSize+i >= height {
				break
			}
			if len(line) < lineSize {
				return nil, fmt.Errorf("%w: block row %d line %d is %d bytes, need %d",
					ErrDecompressor, yb, i, len(line), lineSize)
			}
			out = append(out, line[:lineSize]...)
		}
	}

	return out, nil
}

// decodeRaw reorders uncompressed pixels stored in order into canonical
// R, G, B(, A) order.
func decodeRaw(r io.Reader, width, height int, order string) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncatedData, err)
	}

	bpp := len(order)
	if bpp == 0 || len(data)%bpp != 0 {
		return nil, fmt.Errorf("%w: %d bytes for %d-byte pixels", ErrMisaligned, len(data), bpp)
	}

	size, err := bufferSize(width, height, bpp)
	if err != nil {
		return nil, err
	}
	if len(data) < size {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrTruncatedData, size, len(data))
	}

	var index [4]int
	for i := 0; i < bpp; i++ {
		index[i] = strings.IndexByte(order, canonicalOrder[i])
		if index[i] < 0 {
			return nil, fmt.Errorf("%w: %c in %q", ErrMissingChannel, canonicalOrder[i], order)
		}
	}

	out := make([]byte, size)
	for p := 0; p < size; p += bpp {
		px := data[p : p+bpp]
		for i := 0; i < bpp; i++ {
			out[p+i] = px[index[i]]
		}
	}

	return out, nil
}
