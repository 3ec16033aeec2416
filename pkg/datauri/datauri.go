// Package datauri converts raw image bytes to and from the
// self-describing "data:<mime>;base64,<bytes>" form stored inline in
// thumbnail documents and rendered directly by browsers.
package datauri

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const prefix = "data:"

var ErrNotDataURI = errors.New("string is not a base64 data URI")

// EncodeReader reads r to the end and returns the data URI. The MIME
// type is sniffed from the content, not taken from a filename. A read
// failure is returned as-is and is terminal for the attempt.
func EncodeReader(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	return Encode(data), nil
}

// Encode returns the data URI for raw bytes.
func Encode(data []byte) string {
	mime := mimetype.Detect(data).String()
	var b strings.Builder
	b.Grow(len(prefix) + len(mime) + len(";base64,") + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString(prefix)
	b.WriteString(mime)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}

// Decode splits a data URI back into its MIME type and raw bytes.
func Decode(uri string) (mime string, data []byte, err error) {
	if !strings.HasPrefix(uri, prefix) {
		return "", nil, ErrNotDataURI
	}
	rest := uri[len(prefix):]
	sep := strings.Index(rest, ";base64,")
	if sep < 0 {
		return "", nil, ErrNotDataURI
	}
	mime = rest[:sep]
	data, err = base64.StdEncoding.DecodeString(rest[sep+len(";base64,"):])
	if err != nil {
		return "", nil, fmt.Errorf("decode image payload: %w", err)
	}
	return mime, data, nil
}
