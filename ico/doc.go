/*
Package ico reads Windows ICO icon files.

An ICO file holds a directory of icon images. The package selects the
largest entry and decodes it either as an embedded PNG or as a DIB (a BMP
without its file header, stored at double height for the AND mask).
*/
package ico
