package dds

import (
	"errors"
	"fmt"
)

// Error categories. Errors about the file contents match one of them with
// errors.Is. ErrDecompressor and the file helper errors stand on their own.
var (
	// ErrFormat indicates a malformed header, pixel format or payload.
	ErrFormat = errors.New("invalid DDS format")
	// ErrUnsupportedFormat indicates a valid header describing an unsupported compression.
	ErrUnsupportedFormat = errors.New("unsupported DDS format")
	// ErrNotImplemented indicates a recognized but unimplemented feature.
	ErrNotImplemented = errors.New("not implemented")
	// ErrTruncatedData indicates fewer bytes than the header promises.
	ErrTruncatedData = errors.New("truncated data")
	// ErrSizeOverflow indicates a size or dimension exceeds supported limits.
	ErrSizeOverflow = errors.New("size overflow")
)

var (
	// ErrBadMagic indicates the stream does not start with "DDS ".
	ErrBadMagic = fmt.Errorf("%w: missing DDS magic", ErrFormat)
	// ErrHeaderSize indicates dwSize is not 124.
	ErrHeaderSize = fmt.Errorf("%w: unexpected header size", ErrFormat)
	// ErrHeaderFlags indicates required header flags are missing.
	ErrHeaderFlags = fmt.Errorf("%w: unsupported header flags", ErrFormat)
	// ErrPixelFormatSize indicates the pixel format dwSize is not 32.
	ErrPixelFormatSize = fmt.Errorf("%w: unexpected pixel format size", ErrFormat)
	// ErrHeaderCaps indicates the TEXTURE capability is missing.
	ErrHeaderCaps = fmt.Errorf("%w: unsupported caps", ErrFormat)
	// ErrUnknownMask indicates a channel mask outside the recognized byte masks.
	ErrUnknownMask = fmt.Errorf("%w: unknown mask value", ErrFormat)
	// ErrDuplicateMask indicates two channels share one byte slot.
	ErrDuplicateMask = fmt.Errorf("%w: duplicate channel mask", ErrFormat)
	// ErrMissingChannel indicates a color channel is not present in the pixel layout.
	ErrMissingChannel = fmt.Errorf("%w: missing color channel", ErrFormat)
	// ErrMisaligned indicates raw pixel data is not a whole number of pixels.
	ErrMisaligned = fmt.Errorf("%w: misaligned pixel data", ErrFormat)
	// ErrEmptyImage indicates zero width or height.
	ErrEmptyImage = fmt.Errorf("%w: empty image", ErrFormat)
	// ErrDXT1Alpha indicates DXT1 with the alpha pixels flag.
	ErrDXT1Alpha = fmt.Errorf("%w: DXT1 with alpha", ErrNotImplemented)
	// ErrDecompressor indicates the block decompressor failed or broke its
	// row contract. The decompressor's own error stays in the chain.
	ErrDecompressor = errors.New("block decompressor failed")
)

// EDDS container errors.
var (
	// ErrMipMapCount indicates more mip levels than the dimensions allow.
	ErrMipMapCount = fmt.Errorf("%w: invalid mipmap count", ErrFormat)
	// ErrBlockTableUnknownMagic indicates unknown block magic in table.
	ErrBlockTableUnknownMagic = fmt.Errorf("%w: unknown block magic in table", ErrFormat)
	// ErrBlockTableInvalidSize indicates invalid size in block table.
	ErrBlockTableInvalidSize = fmt.Errorf("%w: invalid block size in table", ErrFormat)
	// ErrCopySizeMismatch indicates COPY block data size mismatch.
	ErrCopySizeMismatch = fmt.Errorf("%w: COPY block size mismatch", ErrFormat)
	// ErrUnknownLZ4Flags indicates unknown LZ4 chunk flags.
	ErrUnknownLZ4Flags = fmt.Errorf("%w: unknown LZ4 flags", ErrFormat)
	// ErrInvalidChunkSize indicates invalid LZ4 chunk size.
	ErrInvalidChunkSize = fmt.Errorf("%w: invalid compressed chunk size", ErrFormat)
	// ErrLZ4Decode indicates LZ4 decode failed.
	ErrLZ4Decode = fmt.Errorf("%w: LZ4 decode failed", ErrFormat)
	// ErrDecodeOverrun indicates decoded data overruns target buffer.
	ErrDecodeOverrun = fmt.Errorf("%w: decoded LZ4 overruns target buffer", ErrFormat)
	// ErrDecodedSizeMismatch indicates decoded size mismatch.
	ErrDecodedSizeMismatch = fmt.Errorf("%w: LZ4 decoded size mismatch", ErrFormat)
	// ErrBlockLengthMismatch indicates leftover bytes after decode.
	ErrBlockLengthMismatch = fmt.Errorf("%w: LZ4 block length mismatch", ErrFormat)
	// ErrChunkStreamTruncated indicates LZ4 chunk stream is truncated.
	ErrChunkStreamTruncated = fmt.Errorf("%w: LZ4 chunk-stream truncated", ErrTruncatedData)
)

// File helper errors.
var (
	// ErrOpenFile indicates file open failed.
	ErrOpenFile = errors.New("open file failed")
	// ErrSeekDataStart indicates seek to data start failed.
	ErrSeekDataStart = errors.New("seek to data start failed")
)
