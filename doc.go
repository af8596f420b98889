/*
Package dds implements a DirectDraw Surface (DDS) reader for legacy textures.

A DDS file is a 128-byte header (magic plus a 124-byte structure) followed by
pixel data. Two payload kinds are decoded: DXT1 (BC1) block-compressed data
without alpha, and uncompressed 8-bit-per-channel data described by channel
bit masks. Images whose dimensions are not multiples of four are cropped to
their exact bounds after block decompression.

The header is parsed eagerly by Open, so size and mode are known before any
pixel data is read. Decode reconstructs the pixel buffer once and caches it.

Arma/DayZ EDDS files (DDS header with per-mip COPY/LZ4 blocks) are read with
OpenEDDS; only the largest level is decoded.

The package registers itself with the image package under the "dds" name.
*/
package dds
