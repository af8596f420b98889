package dds

import (
	"bytes"
	"errors"
	"testing"
)

func TestReadHeader(t *testing.T) {
	t.Parallel()

	h := dxt1Header(5, 7)
	h.MipMapCount = 3
	data := ddsFile(t, h, []byte{1, 2, 3})

	r := bytes.NewReader(data)
	got, err := readHeader(r)
	if err != nil {
		t.Fatalf("readHeader: %v", err)
	}
	if got.Width != 5 || got.Height != 7 || got.MipMapCount != 3 {
		t.Fatalf("unexpected header: %+v", got)
	}
	if fourCC := intToFourCC(got.PixelFormat.FourCC); fourCC != "DXT1" {
		t.Fatalf("FourCC = %q", fourCC)
	}
	if r.Len() != 3 {
		t.Fatalf("header consumed %d bytes, want %d", len(data)-r.Len(), HeaderSize)
	}
}

func TestReadHeaderBadMagicStopsEarly(t *testing.T) {
	t.Parallel()

	data := ddsFile(t, dxt1Header(4, 4), make([]byte, 8))
	copy(data, "PNG ")

	cr := &countingReader{r: bytes.NewReader(data)}
	_, err := readHeader(cr)
	if !errors.Is(err, ErrBadMagic) || !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
	if cr.n != 4 {
		t.Fatalf("read %d bytes after bad magic, want 4", cr.n)
	}
}

func TestReadHeaderValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(h *Header)
		wantErr error
	}{
		{name: "size-123", mutate: func(h *Header) { h.Size = 123 }, wantErr: ErrHeaderSize},
		{name: "size-125", mutate: func(h *Header) { h.Size = 125 }, wantErr: ErrHeaderSize},
		{name: "missing-caps-flag", mutate: func(h *Header) { h.Flags &^= 0x1 }, wantErr: ErrHeaderFlags},
		{name: "missing-height-flag", mutate: func(h *Header) { h.Flags &^= 0x2 }, wantErr: ErrHeaderFlags},
		{name: "missing-width-flag", mutate: func(h *Header) { h.Flags &^= 0x4 }, wantErr: ErrHeaderFlags},
		{name: "missing-pixelformat-flag", mutate: func(h *Header) { h.Flags &^= 0x1000 }, wantErr: ErrHeaderFlags},
		{name: "pf-size-31", mutate: func(h *Header) { h.PixelFormat.Size = 31 }, wantErr: ErrPixelFormatSize},
		{name: "pf-size-33", mutate: func(h *Header) { h.PixelFormat.Size = 33 }, wantErr: ErrPixelFormatSize},
		{name: "missing-texture-cap", mutate: func(h *Header) { h.Caps = 0x8 }, wantErr: ErrHeaderCaps},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h := dxt1Header(4, 4)
			tc.mutate(&h)

			_, err := readHeader(bytes.NewReader(ddsFile(t, h, nil)))
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if !errors.Is(err, ErrFormat) {
				t.Fatalf("expected ErrFormat category, got %v", err)
			}
		})
	}
}

func TestReadHeaderExtraFlagsAccepted(t *testing.T) {
	t.Parallel()

	h := dxt1Header(4, 4)
	h.Flags |= 0x20000 | 0x80000
	h.Caps |= 0x8 | 0x400000

	if _, err := readHeader(bytes.NewReader(ddsFile(t, h, nil))); err != nil {
		t.Fatalf("readHeader: %v", err)
	}
}

func TestReadHeaderTruncated(t *testing.T) {
	t.Parallel()

	data := ddsFile(t, dxt1Header(4, 4), nil)

	for _, n := range []int{0, 2, 4, 64, HeaderSize - 1} {
		_, err := readHeader(bytes.NewReader(data[:n]))
		if !errors.Is(err, ErrTruncatedData) {
			t.Fatalf("%d bytes: expected ErrTruncatedData, got %v", n, err)
		}
	}
}

func TestReadHeaderKeepsAllFields(t *testing.T) {
	t.Parallel()

	h := rawHeader(3, 2, 0xff0000, 0xff00, 0xff, 0xff000000, true)
	h.Reserved1[1] = 0x31464e45

	got, err := readHeader(bytes.NewReader(ddsFile(t, h, nil)))
	if err != nil {
		t.Fatalf("readHeader: %v", err)
	}

	if *got != h {
		t.Fatalf("header = %+v, want %+v", *got, h)
	}
}
