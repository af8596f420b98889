package dds

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestDecodeCompressedCropsPadding(t *testing.T) {
	t.Parallel()

	dec := &gridDecompressor{}
	// 5x5 needs 2x2 blocks of 8 bytes
	payload := make([]byte, 2*2*8)

	got, err := decodeCompressed(bytes.NewReader(payload), 5, 5, dec)
	if err != nil {
		t.Fatalf("decodeCompressed: %v", err)
	}

	if len(got) != 5*5*3 {
		t.Fatalf("buffer is %d bytes, want %d", len(got), 5*5*3)
	}
	if dec.calls != 2 {
		t.Fatalf("decompressor called %d times, want 2", dec.calls)
	}
	for i, n := range dec.rowSizes {
		if n != 16 {
			t.Fatalf("row %d: requested %d bytes, want 16", i, n)
		}
	}

	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			off := (y*5 + x) * 3
			want := gridValue(x, y)
			if got[off] != want || got[off+1] != want || got[off+2] != want {
				t.Fatalf("pixel (%d,%d) = %v, want %d", x, y, got[off:off+3], want)
			}
		}
	}
}

func TestDecodeCompressedTruncated(t *testing.T) {
	t.Parallel()

	_, err := decodeCompressed(bytes.NewReader(make([]byte, 16+3)), 5, 5, &gridDecompressor{})
	if !errors.Is(err, ErrTruncatedData) {
		t.Fatalf("expected ErrTruncatedData, got %v", err)
	}
}

func TestDecodeCompressedShortRow(t *testing.T) {
	t.Parallel()

	short := BlockDecompressorFunc(func(row []byte) ([4][]byte, error) {
		return [4][]byte{{1}, {2}, {3}, {4}}, nil
	})

	_, err := decodeCompressed(bytes.NewReader(make([]byte, 8)), 4, 4, short)
	if !errors.Is(err, ErrDecompressor) {
		t.Fatalf("expected ErrDecompressor, got %v", err)
	}
}

func TestDecodeCompressedDecompressorError(t *testing.T) {
	t.Parallel()

	failing := BlockDecompressorFunc(func(row []byte) ([4][]byte, error) {
		return [4][]byte{}, errors.New("boom")
	})

	_, err := decodeCompressed(bytes.NewReader(make([]byte, 8)), 4, 4, failing)
	if !errors.Is(err, ErrDecompressor) {
		t.Fatalf("expected ErrDecompressor, got %v", err)
	}
}

func TestDecodeCompressedWrapsDecompressorErrorOnce(t *testing.T) {
	t.Parallel()

	errBlock := errors.New("bad block")
	tests := []struct {
		name string
		dec  BlockDecompressor
	}{
		{name: "plain-error", dec: BlockDecompressorFunc(func(row []byte) ([4][]byte, error) {
			return [4][]byte{}, errBlock
		})},
		{name: "already-wrapped", dec: BlockDecompressorFunc(func(row []byte) ([4][]byte, error) {
			return [4][]byte{}, fmt.Errorf("%w: %w", ErrDecompressor, errBlock)
		})},
		{name: "bcn-row", dec: DXT1Decompressor{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// 7 bytes is not a whole DXT1 block for the bcn decompressor
			_, err := decodeCompressed(bytes.NewReader(make([]byte, 8)), 4, 4, rowPrefix(tc.dec, 7))
			if !errors.Is(err, ErrDecompressor) {
				t.Fatalf("expected ErrDecompressor, got %v", err)
			}
			if n := strings.Count(err.Error(), ErrDecompressor.Error()); n != 1 {
				t.Fatalf("ErrDecompressor appears %d times in %q", n, err)
			}
			if tc.name != "bcn-row" && !errors.Is(err, errBlock) {
				t.Fatalf("underlying error lost: %v", err)
			}
		})
	}
}

// rowPrefix hands dec only the first n bytes of each row.
func rowPrefix(dec BlockDecompressor, n int) BlockDecompressor {
	return BlockDecompressorFunc(func(row []byte) ([4][]byte, error) {
		return dec.DecompressRow(row[:n])
	})
}

func TestDecodeRawTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		order   string
		w, h    int
		data    []byte
		want    []byte
		wantErr error
	}{
		{
			name:  "bgr-to-rgb",
			order: "BGR",
			w:     2, h: 1,
			data: []byte{3, 2, 1, 6, 5, 4},
			want: []byte{1, 2, 3, 4, 5, 6},
		},
		{
			name:  "rgb-identity",
			order: "RGB",
			w:     1, h: 2,
			data: []byte{10, 20, 30, 40, 50, 60},
			want: []byte{10, 20, 30, 40, 50, 60},
		},
		{
			name:  "bgra-to-rgba",
			order: "BGRA",
			w:     1, h: 1,
			data: []byte{3, 2, 1, 4},
			want: []byte{1, 2, 3, 4},
		},
		{
			name:  "argb-to-rgba",
			order: "ARGB",
			w:     1, h: 1,
			data: []byte{9, 1, 2, 3},
			want: []byte{1, 2, 3, 9},
		},
		{
			name:  "trailing-mips-ignored",
			order: "BGR",
			w:     1, h: 1,
			data: []byte{3, 2, 1, 7, 7, 7},
			want: []byte{1, 2, 3},
		},
		{
			name:  "misaligned",
			order: "BGR",
			w:     1, h: 1,
			data:    []byte{1, 2, 3, 4},
			wantErr: ErrMisaligned,
		},
		{
			name:  "short",
			order: "BGRA",
			w:     2, h: 2,
			data:    make([]byte, 12),
			wantErr: ErrTruncatedData,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := decodeRaw(bytes.NewReader(tc.data), tc.w, tc.h, tc.order)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected error %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeRaw: %v", err)
			}
			if !bytes.Equal(got, tc.want) {
				t.Fatalf("decodeRaw() = %v, want %v", got, tc.want)
			}
		})
	}
}
