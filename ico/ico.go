package ico

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"io"
)

// Magic is the reserved and type fields of an icon directory.
const Magic = "\x00\x00\x01\x00"

const (
	dirHeaderSize = 6
	entrySize     = 16
	pngSignature  = "\x89PNG\r\n\x1a\n"
)

func init() {
	image.RegisterFormat("ico", Magic, Decode, DecodeConfig)
}

// Entry is one icon directory record.
type Entry struct {
	Width    int // 1..256
	Height   int // 1..256
	Colors   uint8
	Planes   uint16
	BitCount uint16
	Size     uint32
	Offset   uint32
}

// File is an opened ICO file.
type File struct {
	r       io.ReadSeeker
	Entries []Entry
}

// Open reads the icon directory from r, which must be positioned at the
// start of the file.
func Open(r io.ReadSeeker) (*File, error) {
	var hdr [dirHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: directory: %v", ErrTruncatedData, err)
	}
	if string(hdr[:4]) != Magic {
		return nil, fmt.Errorf("%w: %q", ErrBadMagic, hdr[:4])
	}

	count := int(binary.LittleEndian.Uint16(hdr[4:6]))
	if count == 0 {
		return nil, ErrNoEntries
	}

	f := &File{r: r, Entries: make([]Entry, 0, count)}
	var rec [entrySize]byte
	for i := 0; i < count; i++ {
		if _, err := io.ReadFull(r, rec[:]); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrTruncatedData, i, err)
		}
		f.Entries = append(f.Entries, Entry{
			Width:    dimension(rec[0]),
			Height:   dimension(rec[1]),
			Colors:   rec[2],
			Planes:   binary.LittleEndian.Uint16(rec[4:6]),
			BitCount: binary.LittleEndian.Uint16(rec[6:8]),
			Size:     binary.LittleEndian.Uint32(rec[8:12]),
			Offset:   binary.LittleEndian.Uint32(rec[12:16]),
		})
	}

	return f, nil
}

// dimension maps the directory byte to pixels; 0 means 256.
func dimension(b byte) int {
	if b == 0 {
		return 256
	}

	return int(b)
}

// Largest returns the entry that is both wider and taller than every entry
// before it; on ties the earlier entry wins.
func (f *File) Largest() Entry {
	best := f.Entries[0]
	for _, e := range f.Entries[1:] {
		if e.Width > best.Width && e.Height > best.Height {
			best = e
		}
	}

	return best
}

// Image decodes one entry.
func (f *File) Image(e Entry) (image.Image, error) {
	if _, err := f.r.Seek(int64(e.Offset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: seek entry: %v", ErrTruncatedData, err)
	}

	data := make([]byte, e.Size)
	if _, err := io.ReadFull(f.r, data); err != nil {
		return nil, fmt.Errorf("%w: entry data: %v", ErrTruncatedData, err)
	}

	if bytes.HasPrefix(data, []byte(pngSignature)) {
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: png: %v", ErrDecodeEntry, err)
		}
		return img, nil
	}

	return decodeDIB(data)
}

// Decode reads an ICO file and decodes its largest entry.
func Decode(r io.Reader) (image.Image, error) {
	rs, err := asReadSeeker(r)
	if err != nil {
		return nil, err
	}

	f, err := Open(rs)
	if err != nil {
		return nil, err
	}

	return f.Image(f.Largest())
}

// DecodeConfig returns the directory size of the largest entry.
func DecodeConfig(r io.Reader) (image.Config, error) {
	rs, err := asReadSeeker(r)
	if err != nil {
		return image.Config{}, err
	}

	f, err := Open(rs)
	if err != nil {
		return image.Config{}, err
	}

	e := f.Largest()
	img, err := f.Image(e)
	if err != nil {
		return image.Config{}, err
	}

	return image.Config{Width: e.Width, Height: e.Height, ColorModel: img.ColorModel()}, nil
}

func asReadSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncatedData, err)
	}

	return bytes.NewReader(data), nil
}
