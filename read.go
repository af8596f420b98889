package dds

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/woozymasta/bcn"
)

func init() {
	image.RegisterFormat("dds", Magic, Decode, DecodeConfig)
}

// Options configures decoding. Nil Options uses defaults.
type Options struct {
	// DecodeOptions are passed to the BCn decoder (e.g. Workers).
	DecodeOptions *bcn.DecodeOptions
	// Decompressor replaces the default DXT1 block decompressor.
	Decompressor BlockDecompressor
}

func (o *Options) decompressor() BlockDecompressor {
	if o == nil {
		return DXT1Decompressor{}
	}
	if o.Decompressor != nil {
		return o.Decompressor
	}

	return DXT1Decompressor{Options: o.DecodeOptions}
}

// Image is an opened DDS texture. The header is parsed by Open; pixels are
// decoded on the first call to Decode and cached.
type Image struct {
	r       io.ReadSeeker
	header  *Header
	layout  layout
	mode    Mode
	width   int
	height  int
	dec     BlockDecompressor
	payload func() (io.Reader, error)

	mu      sync.Mutex
	decoded bool
	pix     []byte
}

// Open parses the DDS header from r, which must be positioned at the start
// of the file.
func Open(r io.ReadSeeker) (*Image, error) {
	return OpenWithOptions(r, nil)
}

// OpenWithOptions parses the DDS header from r with the given options.
func OpenWithOptions(r io.ReadSeeker, opts *Options) (*Image, error) {
	img, err := openHeader(r, opts)
	if err != nil {
		return nil, err
	}

	img.payload = func() (io.Reader, error) {
		if _, err := r.Seek(HeaderSize, io.SeekStart); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSeekDataStart, err)
		}
		return r, nil
	}

	return img, nil
}

// openHeader reads the header and picks the decode path.
func openHeader(r io.ReadSeeker, opts *Options) (*Image, error) {
	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	l, mode, err := selectLayout(header.PixelFormat)
	if err != nil {
		return nil, err
	}

	width, height, err := dimensions(header, l)
	if err != nil {
		return nil, err
	}

	return &Image{
		r:      r,
		header: header,
		layout: l,
		mode:   mode,
		width:  width,
		height: height,
		dec:    opts.decompressor(),
	}, nil
}

// dimensions rejects empty images and sizes whose payload does not fit.
func dimensions(header *Header, l layout) (int, int, error) {
	width, height := int(header.Width), int(header.Height)
	if width == 0 || height == 0 {
		return 0, 0, fmt.Errorf("%w: %dx%d", ErrEmptyImage, width, height)
	}
	if _, err := l.payloadSize(width, height); err != nil {
		return 0, 0, fmt.Errorf("%w: %dx%d", err, width, height)
	}

	return width, height, nil
}

// Header returns a copy of the parsed header.
func (m *Image) Header() Header { return *m.header }

// Width returns the image width in pixels.
func (m *Image) Width() int { return m.width }

// Height returns the image height in pixels.
func (m *Image) Height() int { return m.height }

// Size returns width and height in pixels.
func (m *Image) Size() (int, int) { return m.width, m.height }

// Mode returns the decoded color mode.
func (m *Image) Mode() Mode { return m.mode }

// Format describes the payload: "DXT1" or the stored channel order.
func (m *Image) Format() string { return m.layout.String() }

// Decode returns the row-major pixel buffer in Mode order. The first
// successful call decodes and caches; later calls return the cached buffer
// without reading the source again. A failed decode is not cached.
func (m *Image) Decode() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.decoded {
		return m.pix, nil
	}

	src, err := m.payload()
	if err != nil {
		return nil, err
	}

	var pix []byte
	switch l := m.layout.(type) {
	case compressedLayout:
		pix, err = decodeCompressed(src, m.width, m.height, m.dec)
	case rawLayout:
		pix, err = decodeRaw(src, m.width, m.height, l.order)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, m.layout)
	}
	if err != nil {
		return nil, err
	}

	m.pix = pix
	m.decoded = true

	return m.pix, nil
}

// Image decodes the pixels into an *image.NRGBA. RGB pixels become opaque.
func (m *Image) Image() (image.Image, error) {
	pix, err := m.Decode()
	if err != nil {
		return nil, err
	}

	out := image.NewNRGBA(image.Rect(0, 0, m.width, m.height))
	if m.mode == ModeRGBA {
		copy(out.Pix, pix)
		return out, nil
	}

	for i, j := 0, 0; i < len(pix); i, j = i+3, j+4 {
		out.Pix[j] = pix[i]
		out.Pix[j+1] = pix[i+1]
		out.Pix[j+2] = pix[i+2]
		out.Pix[j+3] = 0xff
	}

	return out, nil
}

// Decode reads a DDS image from r.
func Decode(r io.Reader) (image.Image, error) {
	rs, err := asReadSeeker(r)
	if err != nil {
		return nil, err
	}

	img, err := Open(rs)
	if err != nil {
		return nil, err
	}

	return img.Image()
}

// DecodeConfig reads DDS dimensions without decoding pixel data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	header, err := readHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	l, _, err := selectLayout(header.PixelFormat)
	if err != nil {
		return image.Config{}, err
	}
	width, height, err := dimensions(header, l)
	if err != nil {
		return image.Config{}, err
	}

	return image.Config{
		Width:      width,
		Height:     height,
		ColorModel: color.NRGBAModel,
	}, nil
}

// ReadConfig reads DDS or EDDS file configuration without decoding image data.
func ReadConfig(path string) (image.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	return DecodeConfig(f)
}

// Read reads and decodes a DDS or EDDS file into an image.
func Read(path string) (image.Image, error) {
	return ReadWithOptions(path, nil)
}

// ReadWithOptions reads and decodes a DDS or EDDS file with the given options.
// Files with the .edds extension are read as EDDS.
func ReadWithOptions(path string, opts *Options) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	open := OpenWithOptions
	if strings.EqualFold(filepath.Ext(path), ".edds") {
		open = OpenEDDS
	}

	img, err := open(f, opts)
	if err != nil {
		return nil, err
	}

	return img.Image()
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
