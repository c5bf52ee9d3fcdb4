package binstore

import (
	"bytes"
	"io"
	"os"
)

// sniffLen matches git's binary detection window.
const sniffLen = 8000

// isBinaryFile reports whether the file at path looks like binary content:
// a NUL byte anywhere in the first 8000 bytes. Text files are not worth
// storing as blobs and are handed to plain git staging instead.
func isBinaryFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false, err
	}
	return bytes.IndexByte(buf[:n], 0) >= 0, nil
}
