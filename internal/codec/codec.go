// Package codec maps file names to image decoders.
package codec

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jsummers/gobmp"
	"github.com/woozymasta/dds"
	"github.com/woozymasta/dds/ico"
)

var (
	// ErrUnknownFormat indicates no decoder matches the file name.
	ErrUnknownFormat = errors.New("unknown file format")
	// ErrUnsupported indicates a recognized format without a decoder.
	ErrUnsupported = errors.New("unsupported file format")
)

// Decoder decodes an image from the start of r.
type Decoder func(r io.ReadSeeker) (image.Image, error)

// Codec describes one supported file type.
type Codec struct {
	Name string
	// MIME is the media type; empty when the format has none.
	MIME       string
	Extensions []string
	Decode     Decoder
}

func readerDecoder(decode func(io.Reader) (image.Image, error)) Decoder {
	return func(r io.ReadSeeker) (image.Image, error) { return decode(r) }
}

func ddsDecoder(open func(io.ReadSeeker, *dds.Options) (*dds.Image, error)) Decoder {
	return func(r io.ReadSeeker) (image.Image, error) {
		img, err := open(r, nil)
		if err != nil {
			return nil, err
		}
		return img.Image()
	}
}

// codecs is ordered by preference: LookupMIME returns the first codec with a
// matching media type.
var codecs = []Codec{
	{Name: "DDS", MIME: "image/vnd-ms.dds", Extensions: []string{".dds"}, Decode: ddsDecoder(dds.OpenWithOptions)},
	{Name: "EDDS", MIME: "image/vnd-ms.dds", Extensions: []string{".edds"}, Decode: ddsDecoder(dds.OpenEDDS)},
	{Name: "ICO", MIME: "image/vnd.microsoft.icon", Extensions: []string{".ico"}, Decode: readerDecoder(ico.Decode)},
	{Name: "PNG", MIME: "image/png", Extensions: []string{".png"}, Decode: readerDecoder(png.Decode)},
	{Name: "BMP", MIME: "image/bmp", Extensions: []string{".bmp"}, Decode: readerDecoder(gobmp.Decode)},
	{Name: "JPEG", MIME: "image/jpeg", Extensions: []string{".jpg", ".jpeg"}, Decode: readerDecoder(jpeg.Decode)},
	// BLP and FTEX are recognized but have no decoder.
	{Name: "BLP", MIME: "image/vnd.bliz.blp", Extensions: []string{".blp"}},
	{Name: "FTEX", Extensions: []string{".ftc", ".ftu"}},
}

// Lookup returns the codec for a file name by extension, case-insensitively.
func Lookup(name string) (Codec, error) {
	ext := strings.ToLower(filepath.Ext(name))
	for _, c := range codecs {
		if slices.Contains(c.Extensions, ext) {
			return c, c.check()
		}
	}

	return Codec{}, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// LookupMIME returns the codec for a media type. Parameters such as
// "; charset=" are ignored.
func LookupMIME(mediaType string) (Codec, error) {
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return Codec{}, fmt.Errorf("%w: %q: %v", ErrUnknownFormat, mediaType, err)
	}

	for _, c := range codecs {
		if c.MIME != "" && c.MIME == mt {
			return c, c.check()
		}
	}

	return Codec{}, fmt.Errorf("%w: %q", ErrUnknownFormat, mediaType)
}

func (c Codec) check() error {
	if c.Decode == nil {
		return fmt.Errorf("%w: %s", ErrUnsupported, c.Name)
	}

	return nil
}

// DecodeFile opens path and decodes it with the matching codec.
func DecodeFile(path string) (image.Image, Codec, error) {
	c, err := Lookup(path)
	if err != nil {
		return nil, c, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, c, err
	}
	defer func() { _ = f.Close() }()

	img, err := c.Decode(f)
	if err != nil {
		return nil, c, fmt.Errorf("%s: %w", path, err)
	}

	return img, c, nil
}
