package thumbnail

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validRecord() *Thumbnail {
	return &Thumbnail{
		Title:     "My thumbnail",
		Category:  CategoryGaming,
		ImageURL:  "data:image/png;base64,aGVsbG8=",
		CreatedAt: time.Now().UTC(),
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Thumbnail)
		wantErr error
	}{
		{"valid", func(*Thumbnail) {}, nil},
		{"three char title is enough", func(th *Thumbnail) { th.Title = "abc" }, nil},
		{"two char title", func(th *Thumbnail) { th.Title = "ab" }, ErrTitleTooShort},
		{"empty title", func(th *Thumbnail) { th.Title = "" }, ErrTitleTooShort},
		{"unknown category", func(th *Thumbnail) { th.Category = "Sports" }, ErrInvalidCategory},
		{"all sentinel is not storable", func(th *Thumbnail) { th.Category = Category(FilterAll) }, ErrInvalidCategory},
		{"missing image", func(th *Thumbnail) { th.ImageURL = "" }, ErrNoImage},
		{"image over ceiling", func(th *Thumbnail) { th.ImageURL = strings.Repeat("x", MaxDocumentBytes+1) }, ErrImageTooLarge},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := validRecord()
			tc.mutate(rec)
			err := rec.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(string(c))
		assert.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := ParseCategory("All")
	assert.ErrorIs(t, err, ErrInvalidCategory)
	_, err = ParseCategory("gaming")
	assert.ErrorIs(t, err, ErrInvalidCategory, "categories are case sensitive")
}

func TestCheckDocumentSize(t *testing.T) {
	assert.NoError(t, CheckDocumentSize(strings.Repeat("a", MaxDocumentBytes)))
	assert.ErrorIs(t, CheckDocumentSize(strings.Repeat("a", MaxDocumentBytes+1)), ErrImageTooLarge)

	// Byte length, not rune count: each rune below is 3 bytes.
	multibyte := strings.Repeat("☃", MaxDocumentBytes/3+1)
	assert.ErrorIs(t, CheckDocumentSize(multibyte), ErrImageTooLarge)
}

func TestRawUploadLimit(t *testing.T) {
	assert.Equal(t, int64(734003), RawUploadLimit(0.7))
	assert.Equal(t, int64(734003), RawUploadLimit(0), "zero falls back to the default")
	assert.Equal(t, int64(1048576), RawUploadLimit(1))
}
