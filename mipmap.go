package dds

import "github.com/woozymasta/bcn"

// maxMipMapCount returns the length of a full mip chain for the dimensions.
func maxMipMapCount(width, height int) int {
	count := 1
	for width > 1 || height > 1 {
		count++
		if width > 1 {
			width /= 2
		}
		if height > 1 {
			height /= 2
		}
	}

	return count
}

// mipMapCount returns the number of levels declared by the header.
func mipMapCount(h *Header) int {
	if h.Caps&uint32(bcn.DDSCapsMipmap) != 0 && h.MipMapCount > 0 {
		return int(h.MipMapCount)
	}

	return 1
}
