package thumbnail

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// MinTitleLength is the raw length floor for a thumbnail title.
const MinTitleLength = 3

var (
	ErrTitleTooShort   = errors.New("title must be at least 3 characters")
	ErrInvalidCategory = errors.New("category is not one of the known set")
	ErrImageTooLarge   = errors.New("encoded image exceeds the document size limit")
	ErrNoImage         = errors.New("no image data provided")
)

// Thumbnail is the persisted gallery unit. ImageURL holds the full
// data-URI encoded image, not a network URL; the field name follows the
// stored document field. ID is assigned by the store on creation,
// CreatedAt by the client at submission time. Neither changes afterwards.
type Thumbnail struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Title     string    `json:"title"`
	Category  Category  `json:"category"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the creation invariants: title length, a known
// category, image present and under the document ceiling.
func (t *Thumbnail) Validate() error {
	if len(t.Title) < MinTitleLength {
		return ErrTitleTooShort
	}
	if !t.Category.Valid() {
		return ErrInvalidCategory
	}
	if t.ImageURL == "" {
		return ErrNoImage
	}
	return CheckDocumentSize(t.ImageURL)
}

// Repository is the store wrapper consumed by gallery sessions. Errors
// returned by implementations carry apperror kinds so callers can
// distinguish unreachable-store, rejected-write, payload-too-large and
// not-found without inspecting message text.
type Repository interface {
	// Insert persists a new record and returns the store-assigned id.
	Insert(ctx context.Context, t *Thumbnail) (uuid.UUID, error)
	// ListByOwner returns every record of one owner, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Thumbnail, error)
	// UpdateFields changes title and category of an existing record.
	// ImageURL and CreatedAt are never touched.
	UpdateFields(ctx context.Context, id, ownerID uuid.UUID, title string, category Category) error
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
	FindByID(ctx context.Context, id, ownerID uuid.UUID) (*Thumbnail, error)
}
