// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dds

package dds

const maxInt32 = int(^uint32(0) >> 1)

// bufferSize returns width*height*bpp, failing when it does not fit an int32.
func bufferSize(width, height, bpp int) (int, error) {
	if width < 0 || height < 0 || bpp < 0 {
		return 0, ErrSizeOverflow
	}
	size := uint64(width) * uint64(height) * uint64(bpp)
	if size > uint64(maxInt32) {
		return 0, ErrSizeOverflow
	}

	return int(size), nil
}
