package tui

import (
	"github.com/gabriel-vasile/mimetype"
)

// LargeFileSize is the size from which printing a whole file asks first.
const LargeFileSize = 10 * 1024

// IsBinary reports whether data does not look like text. Only a prefix of
// data is inspected.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return false
		}
	}
	return true
}
