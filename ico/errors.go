package ico

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat indicates the data is not a valid ICO file.
	ErrFormat = errors.New("invalid ICO format")
	// ErrTruncatedData indicates fewer bytes than the directory promises.
	ErrTruncatedData = errors.New("truncated data")
	// ErrNoEntries indicates an icon directory without images.
	ErrNoEntries = fmt.Errorf("%w: no icon entries", ErrFormat)
	// ErrBadMagic indicates the reserved/type fields are not 0/1.
	ErrBadMagic = fmt.Errorf("%w: not an ICO file", ErrFormat)
	// ErrInvalidDIB indicates a malformed bitmap entry.
	ErrInvalidDIB = fmt.Errorf("%w: invalid DIB entry", ErrFormat)
	// ErrDecodeEntry indicates the entry payload failed to decode.
	ErrDecodeEntry = errors.New("decode icon entry failed")
)
