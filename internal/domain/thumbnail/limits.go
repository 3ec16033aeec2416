package thumbnail

// MaxDocumentBytes is the hard ceiling on the encoded image string, a
// safety margin below the store's 1 MiB per-document limit. It is the
// authoritative check: base64 inflates the raw bytes by roughly a
// third, so a file that passes the upload limit can still exceed it.
const MaxDocumentBytes = 1_048_487

// DefaultMaxUploadMiB is the pre-encoding file size limit applied
// before any encoding work. It is a fast-fail optimization, never the
// correctness boundary.
const DefaultMaxUploadMiB = 0.7

// RawUploadLimit converts the configured MiB limit into a byte count.
// Zero or negative values fall back to the default (734,003 bytes).
func RawUploadLimit(mib float64) int64 {
	if mib <= 0 {
		mib = DefaultMaxUploadMiB
	}
	return int64(mib * 1024 * 1024)
}

// CheckDocumentSize rejects an encoded image whose exact byte length
// exceeds MaxDocumentBytes. len on a Go string counts bytes, so
// multi-byte characters are measured correctly.
func CheckDocumentSize(imageData string) error {
	if len(imageData) > MaxDocumentBytes {
		return ErrImageTooLarge
	}
	return nil
}
