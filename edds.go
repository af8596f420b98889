package dds

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"slices"

	"github.com/pierrec/lz4/v4"
)

const (
	// BlockMagicCOPY marks an uncompressed block.
	BlockMagicCOPY = "COPY"
	// BlockMagicLZ4 marks an LZ4-compressed block.
	BlockMagicLZ4 = "LZ4 "

	// ChunkSize is the Enfusion chunk size for LZ4 streams.
	ChunkSize = 64 * 1024
)

// Block represents one mipmap block body.
type Block struct {
	Magic string
	Data  []byte
	Size  int32
}

type blockHeader struct {
	Magic string
	Size  int32
}

// OpenEDDS parses an EDDS file: a DDS header followed by a block table and
// one COPY or LZ4 block per mip level, smallest first. Only the largest
// level is decoded.
func OpenEDDS(r io.ReadSeeker, opts *Options) (*Image, error) {
	img, err := openHeader(r, opts)
	if err != nil {
		return nil, err
	}

	levels := mipMapCount(img.header)
	if limit := maxMipMapCount(img.width, img.height); levels > limit {
		return nil, fmt.Errorf("%w: %d levels for %dx%d (max %d)", ErrMipMapCount, levels, img.width, img.height, limit)
	}

	expected, err := img.layout.payloadSize(img.width, img.height)
	if err != nil {
		return nil, err
	}

	img.payload = func() (io.Reader, error) {
		if _, err := r.Seek(HeaderSize, io.SeekStart); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSeekDataStart, err)
		}

		data, err := readLargestMip(r, levels, expected)
		if err != nil {
			return nil, err
		}

		return bytes.NewReader(data), nil
	}

	return img, nil
}

// readLargestMip reads the block table, skips all but the last (largest)
// block and inflates it to expected bytes.
func readLargestMip(r io.ReadSeeker, levels, expected int) ([]byte, error) {
	table, err := readBlockTable(r, levels)
	if err != nil {
		return nil, err
	}

	last := len(table) - 1
	for i := 0; i < last; i++ {
		if _, err := r.Seek(int64(table[i].Size), io.SeekCurrent); err != nil {
			return nil, fmt.Errorf("%w: skip mipmap %d: %v", ErrTruncatedData, i, err)
		}
	}

	if limit := maxBlockSize(table[last].Magic, expected); int64(table[last].Size) > limit {
		return nil, fmt.Errorf("%w: %s block of %d bytes, at most %d expected",
			ErrBlockTableInvalidSize, table[last].Magic, table[last].Size, limit)
	}

	block, err := readBlockBody(r, table[last])
	if err != nil {
		return nil, err
	}

	return decompressBlock(block, expected)
}

func readBlockTable(r io.Reader, levels int) ([]blockHeader, error) {
	hdrs := make([]blockHeader, 0, levels)
	for i := 0; i < levels; i++ {
		magicBytes := make([]byte, 4)
		if _, err := io.ReadFull(r, magicBytes); err != nil {
			return nil, fmt.Errorf("%w: block table magic %d: %v", ErrTruncatedData, i, err)
		}

		magic := string(magicBytes)
		var size int32
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			return nil, fmt.Errorf("%w: block table size %d: %v", ErrTruncatedData, i, err)
		}

		if magic != BlockMagicCOPY && magic != BlockMagicLZ4 {
			return nil, fmt.Errorf("%w: %d: %q", ErrBlockTableUnknownMagic, i, magic)
		}

		if size < 0 {
			return nil, fmt.Errorf("%w: %d: %d", ErrBlockTableInvalidSize, i, size)
		}

		hdrs = append(hdrs, blockHeader{Magic: magic, Size: size})
	}

	return hdrs, nil
}

// maxBlockSize is the largest body a block of the given kind may have when
// it inflates to expected bytes.
func maxBlockSize(magic string, expected int) int64 {
	if magic == BlockMagicCOPY {
		return int64(expected)
	}

	chunks := int64((expected + ChunkSize - 1) / ChunkSize)
	return 4 + chunks*int64(4+lz4.CompressBlockBound(ChunkSize))
}

// readBlockBody reads a block body. The buffer grows with the bytes actually
// read, so a table entry larger than the file does not allocate up front.
func readBlockBody(r io.Reader, h blockHeader) (*Block, error) {
	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, r, int64(h.Size)); err != nil {
		return nil, fmt.Errorf("%w: %s block body: %v", ErrTruncatedData, h.Magic, err)
	}

	return &Block{Magic: h.Magic, Size: h.Size, Data: buf.Bytes()}, nil
}

// decompressBlock inflates an EDDS block into raw data.
func decompressBlock(block *Block, expectedUncompressedSize int) ([]byte, error) {
	if block.Magic == BlockMagicCOPY {
		if len(block.Data) != expectedUncompressedSize {
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrCopySizeMismatch, expectedUncompressedSize, len(block.Data))
		}
		return block.Data, nil
	}
	if block.Magic != BlockMagicLZ4 {
		return nil, fmt.Errorf("%w: %q", ErrBlockTableUnknownMagic, block.Magic)
	}

	// LZ4 blocks carry the uncompressed size ahead of the chunk stream.
	if len(block.Data) < 4 {
		return nil, fmt.Errorf("%w: need 4 bytes size prefix, have %d", ErrChunkStreamTruncated, len(block.Data))
	}
	targetSize := int(binary.LittleEndian.Uint32(block.Data[:4]))
	if targetSize != expectedUncompressedSize {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrDecodedSizeMismatch, expectedUncompressedSize, targetSize)
	}

	const dictCap = 64 * 1024
	dict := make([]byte, dictCap)
	dictSize := 0

	// grown per chunk so a forged size prefix cannot force a large allocation
	var target []byte
	outIdx := 0

	r := bytes.NewReader(block.Data[4:])

	for {
		var hdr [4]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, fmt.Errorf("%w: chunk header: %v", ErrChunkStreamTruncated, err)
		}

		cSize := int(hdr[0]) | (int(hdr[1]) << 8) | (int(hdr[2]) << 16)
		flags := hdr[3]
		if (flags &^ 0x80) != 0 {
			return nil, fmt.Errorf("%w: 0x%02x", ErrUnknownLZ4Flags, flags)
		}
		if cSize <= 0 || cSize > r.Len() {
			return nil, fmt.Errorf("%w: %d (remaining %d)", ErrInvalidChunkSize, cSize, r.Len())
		}

		compressed := make([]byte, cSize)
		if _, err := io.ReadFull(r, compressed); err != nil {
			return nil, fmt.Errorf("%w: chunk data: %v", ErrChunkStreamTruncated, err)
		}

		remaining := targetSize - outIdx
		if remaining <= 0 {
			return nil, ErrDecodeOverrun
		}
		want := min(ChunkSize, remaining)
		target = slices.Grow(target, want)[:outIdx+want]
		dst := target[outIdx : outIdx+want]

		n, err := lz4.UncompressBlockWithDict(compressed, dst, dict[:dictSize])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLZ4Decode, err)
		}

		outIdx += n

		// keep the trailing 64 KiB of output as the next chunk's dictionary
		decoded := target[outIdx-n : outIdx]
		if len(decoded) >= dictCap {
			copy(dict, decoded[len(decoded)-dictCap:])
			dictSize = dictCap
		} else {
			avail := dictCap - dictSize
			if len(decoded) <= avail {
				copy(dict[dictSize:], decoded)
				dictSize += len(decoded)
			} else {
				shift := len(decoded) - avail
				copy(dict, dict[shift:dictSize])
				copy(dict[dictCap-len(decoded):], decoded)
				dictSize = dictCap
			}
		}

		if (flags & 0x80) != 0 {
			break
		}
	}

	target = target[:outIdx]
	if outIdx != targetSize {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrDecodedSizeMismatch, targetSize, outIdx)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d bytes left after decode", ErrBlockLengthMismatch, r.Len())
	}

	return target, nil
}
