package service

import (
	"context"
	"time"

	"github.com/MinKhant07/Thumbnail/internal/domain/thumbnail"
)

// Critic is the generative critique collaborator: one encoded image
// in, a structured verdict out. Stateless, no relation to persistence.
type Critic interface {
	Critique(ctx context.Context, imageData string) (*thumbnail.Critique, error)
}

// CritiqueCache stores critique results keyed by a digest of the
// encoded image. A miss is (nil, nil).
type CritiqueCache interface {
	Get(ctx context.Context, key string) (*thumbnail.Critique, error)
	Set(ctx context.Context, key string, c *thumbnail.Critique, ttl time.Duration) error
}
