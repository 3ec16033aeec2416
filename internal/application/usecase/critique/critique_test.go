package critique

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MinKhant07/Thumbnail/internal/domain/thumbnail"
	"github.com/MinKhant07/Thumbnail/pkg/apperror"
	"github.com/MinKhant07/Thumbnail/pkg/logger"
)

type mockCritic struct {
	critiqueFunc func(ctx context.Context, imageData string) (*thumbnail.Critique, error)
	calls        int
}

func (m *mockCritic) Critique(ctx context.Context, imageData string) (*thumbnail.Critique, error) {
	m.calls++
	return m.critiqueFunc(ctx, imageData)
}

type memoryCache struct {
	entries map[string]*thumbnail.Critique
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]*thumbnail.Critique)}
}

func (c *memoryCache) Get(ctx context.Context, key string) (*thumbnail.Critique, error) {
	return c.entries[key], nil
}

func (c *memoryCache) Set(ctx context.Context, key string, crit *thumbnail.Critique, ttl time.Duration) error {
	c.entries[key] = crit
	return nil
}

func sampleCritique() *thumbnail.Critique {
	return &thumbnail.Critique{
		EngagementScore: 80,
		ClarityScore:    75,
		ColorScore:      90,
		OverallVerdict:  "Punchy and readable.",
		Suggestions:     []string{"Try a warmer background", "Make the face larger"},
	}
}

func TestExecute_CacheMissThenHit(t *testing.T) {
	critic := &mockCritic{
		critiqueFunc: func(ctx context.Context, imageData string) (*thumbnail.Critique, error) {
			return sampleCritique(), nil
		},
	}
	cache := newMemoryCache()
	uc := NewCritiqueUseCase(critic, cache, time.Hour, logger.NewNop())

	first, err := uc.Execute(context.Background(), CritiqueInput{ImageData: "data:image/png;base64,aGVsbG8="})
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, 1, critic.calls)

	second, err := uc.Execute(context.Background(), CritiqueInput{ImageData: "data:image/png;base64,aGVsbG8="})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, 1, critic.calls, "cache hit still called the critic")
	assert.Equal(t, first.Critique, second.Critique)

	// A different image is a different key.
	_, err = uc.Execute(context.Background(), CritiqueInput{ImageData: "data:image/png;base64,d29ybGQ="})
	require.NoError(t, err)
	assert.Equal(t, 2, critic.calls)
}

func TestExecute_EmptyImageRejected(t *testing.T) {
	critic := &mockCritic{
		critiqueFunc: func(ctx context.Context, imageData string) (*thumbnail.Critique, error) {
			return sampleCritique(), nil
		},
	}
	uc := NewCritiqueUseCase(critic, nil, time.Hour, logger.NewNop())

	_, err := uc.Execute(context.Background(), CritiqueInput{})

	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	assert.Equal(t, 0, critic.calls)
}

func TestExecute_CriticFailureIsInternal(t *testing.T) {
	critic := &mockCritic{
		critiqueFunc: func(ctx context.Context, imageData string) (*thumbnail.Critique, error) {
			return nil, errors.New("model overloaded")
		},
	}
	uc := NewCritiqueUseCase(critic, newMemoryCache(), time.Hour, logger.NewNop())

	_, err := uc.Execute(context.Background(), CritiqueInput{ImageData: "data:image/png;base64,aGVsbG8="})

	assert.ErrorIs(t, err, apperror.ErrInternal)
}

func TestExecute_NilCacheStillWorks(t *testing.T) {
	critic := &mockCritic{
		critiqueFunc: func(ctx context.Context, imageData string) (*thumbnail.Critique, error) {
			return sampleCritique(), nil
		},
	}
	uc := NewCritiqueUseCase(critic, nil, time.Hour, logger.NewNop())

	out, err := uc.Execute(context.Background(), CritiqueInput{ImageData: "data:image/png;base64,aGVsbG8="})
	require.NoError(t, err)
	assert.False(t, out.Cached)
	assert.Equal(t, sampleCritique(), out.Critique)
}
