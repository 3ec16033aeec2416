// Package gallery owns the per-session in-memory view of the thumbnail
// collection and keeps it consistent with the store: one ordered load
// at session start, then incremental mutation only after the store
// acknowledges each create, update or delete. A failed operation never
// touches the view.
package gallery

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/MinKhant07/Thumbnail/adapters/event"
	"github.com/MinKhant07/Thumbnail/internal/domain/thumbnail"
	"github.com/MinKhant07/Thumbnail/pkg/apperror"
	"github.com/MinKhant07/Thumbnail/pkg/logger"
)

var tracer = otel.Tracer("gallery_session")

// EventPublisher is the fire-and-forget event sink. May be nil.
type EventPublisher interface {
	PublishThumbnailEvent(ctx context.Context, payload event.ThumbnailEventPayload) error
}

// Session is the owned ordered container for one login session. The
// records slice is always sorted by CreatedAt descending; it is built
// once by Load and never re-fetched wholesale afterwards, so it can go
// stale if another session writes to the same store. That limitation
// is accepted: the store itself stays last-write-wins.
type Session struct {
	ID       uuid.UUID
	OwnerID  uuid.UUID
	OpenedAt time.Time

	repo   thumbnail.Repository
	events EventPublisher
	logger logger.Logger

	mu      sync.RWMutex
	records []*thumbnail.Thumbnail
}

func NewSession(ownerID uuid.UUID, repo thumbnail.Repository, events EventPublisher, log logger.Logger) *Session {
	return &Session{
		ID:       uuid.New(),
		OwnerID:  ownerID,
		OpenedAt: time.Now(),
		repo:     repo,
		events:   events,
		logger:   log,
		records:  make([]*thumbnail.Thumbnail, 0),
	}
}

// Load populates the view with one ordered query, newest first. On
// failure the view stays empty and usable; there is no retry loop, a
// fresh session is the only way to try again.
func (s *Session) Load(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Load")
	defer span.End()

	records, err := s.repo.ListByOwner(ctx, s.OwnerID)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("Failed to load gallery", err, zap.String("session_id", s.ID.String()))
		return err
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()

	s.logger.Info("Gallery loaded", zap.String("session_id", s.ID.String()), zap.Int("count", len(records)))
	return nil
}

type CreateInput struct {
	Title    string
	Category thumbnail.Category
	// ImageData is the already-encoded data URI, past the upload gate.
	ImageData string
}

// Create validates the candidate, lets the store assign the id, and
// only after acknowledgment prepends the record. Prepending preserves
// the descending order because CreatedAt is assigned here, so a new
// record is always the newest the session has seen.
func (s *Session) Create(ctx context.Context, in CreateInput) (*thumbnail.Thumbnail, error) {
	ctx, span := tracer.Start(ctx, "Create")
	defer span.End()

	rec := &thumbnail.Thumbnail{
		OwnerID:   s.OwnerID,
		Title:     in.Title,
		Category:  in.Category,
		ImageURL:  in.ImageData,
		CreatedAt: time.Now().UTC(),
	}
	if err := rec.Validate(); err != nil {
		span.RecordError(err)
		return nil, asAppError(err)
	}

	id, err := s.repo.Insert(ctx, rec)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("Failed to create thumbnail", err, zap.String("session_id", s.ID.String()))
		return nil, err
	}
	rec.ID = id

	s.mu.Lock()
	s.records = append([]*thumbnail.Thumbnail{rec}, s.records...)
	s.mu.Unlock()

	s.publish(event.ThumbnailEventTypeUploaded, rec.ID)
	return rec, nil
}

type UpdateInput struct {
	ID       uuid.UUID
	Title    string
	Category thumbnail.Category
}

// Update changes title and category of one record, never its image or
// creation time, so the record keeps its position in the view.
func (s *Session) Update(ctx context.Context, in UpdateInput) (*thumbnail.Thumbnail, error) {
	ctx, span := tracer.Start(ctx, "Update")
	defer span.End()

	if len(in.Title) < thumbnail.MinTitleLength {
		return nil, asAppError(thumbnail.ErrTitleTooShort)
	}
	if !in.Category.Valid() {
		return nil, asAppError(thumbnail.ErrInvalidCategory)
	}

	// Only records in this view may be updated. Checking before the
	// store write keeps the reply and the store row in agreement: a
	// record this session never loaded is NotFound without a mutation.
	if _, ok := s.Get(in.ID); !ok {
		return nil, apperror.NewNotFound("thumbnail", in.ID.String())
	}

	if err := s.repo.UpdateFields(ctx, in.ID, s.OwnerID, in.Title, in.Category); err != nil {
		span.RecordError(err)
		s.logger.Error("Failed to update thumbnail", err, zap.String("thumbnail_id", in.ID.String()))
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.records {
		if rec.ID == in.ID {
			updated := *rec
			updated.Title = in.Title
			updated.Category = in.Category
			s.records[i] = &updated
			return &updated, nil
		}
	}
	// The record was present at the membership check but a concurrent
	// delete removed it before we re-took the lock; the store delete
	// ran after our update, so NotFound matches the final store state.
	return nil, apperror.NewNotFound("thumbnail", in.ID.String())
}

// Delete removes the record from the store and, only after the store
// acknowledges, from the view. A failed delete leaves the record
// visible, which matches what the store still holds.
func (s *Session) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "Delete")
	defer span.End()

	if err := s.repo.Delete(ctx, id, s.OwnerID); err != nil {
		span.RecordError(err)
		s.logger.Error("Failed to delete thumbnail", err, zap.String("thumbnail_id", id.String()))
		return err
	}

	s.mu.Lock()
	for i, rec := range s.records {
		if rec.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.publish(event.ThumbnailEventTypeDeleted, id)
	return nil
}

// Filtered returns the subsequence matching both predicates: category
// equality (or the "All" sentinel / empty string for no category
// filter) and case-insensitive title substring. Pure view logic, no
// store interaction; the returned slice is a copy.
func (s *Session) Filtered(category string, searchTerm string) []*thumbnail.Thumbnail {
	term := strings.ToLower(searchTerm)
	all := category == "" || category == thumbnail.FilterAll

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*thumbnail.Thumbnail, 0, len(s.records))
	for _, rec := range s.records {
		if !all && string(rec.Category) != category {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(rec.Title), term) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Get returns the record with the given id from the view.
func (s *Session) Get(id uuid.UUID) (*thumbnail.Thumbnail, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if rec.ID == id {
			return rec, true
		}
	}
	return nil, false
}

func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *Session) publish(eventType event.ThumbnailEventType, id uuid.UUID) {
	if s.events == nil {
		return
	}
	go func() {
		payload := event.ThumbnailEventPayload{
			EventType:   eventType,
			ThumbnailID: id,
			OwnerID:     s.OwnerID,
		}
		if err := s.events.PublishThumbnailEvent(context.Background(), payload); err != nil {
			s.logger.Error("Failed to publish thumbnail event", err,
				zap.String("event_type", string(eventType)),
				zap.String("thumbnail_id", id.String()))
		}
	}()
}

// asAppError maps domain validation failures onto response kinds.
func asAppError(err error) error {
	switch {
	case errors.Is(err, thumbnail.ErrImageTooLarge):
		return apperror.NewPayloadTooLarge("encoded image exceeds the per-document limit")
	case errors.Is(err, thumbnail.ErrTitleTooShort),
		errors.Is(err, thumbnail.ErrInvalidCategory),
		errors.Is(err, thumbnail.ErrNoImage):
		return apperror.NewInvalidInput(err.Error(), err)
	default:
		return err
	}
}
