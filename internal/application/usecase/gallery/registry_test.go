package gallery

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MinKhant07/Thumbnail/internal/domain/thumbnail"
	"github.com/MinKhant07/Thumbnail/pkg/apperror"
	"github.com/MinKhant07/Thumbnail/pkg/logger"
)

const testTTL = time.Hour

func emptyListRepo() *mockThumbRepo {
	repo := acceptingRepo()
	repo.listFunc = func(ctx context.Context, ownerID uuid.UUID) ([]*thumbnail.Thumbnail, error) {
		return []*thumbnail.Thumbnail{}, nil
	}
	return repo
}

func TestRegistry_OpenLoadsOnce(t *testing.T) {
	listCalls := 0
	repo := acceptingRepo()
	repo.listFunc = func(ctx context.Context, ownerID uuid.UUID) ([]*thumbnail.Thumbnail, error) {
		listCalls++
		return []*thumbnail.Thumbnail{}, nil
	}

	reg := NewRegistry(repo, nil, logger.NewNop(), testTTL)
	ownerID := uuid.New()

	s, err := reg.Open(context.Background(), ownerID)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, 1, listCalls)

	// Resolving an existing session never re-queries the store.
	same, err := reg.Resolve(context.Background(), s.ID, ownerID)
	require.NoError(t, err)
	assert.Same(t, s, same)
	assert.Equal(t, 1, listCalls)
}

func TestRegistry_OpenKeepsSessionOnLoadFailure(t *testing.T) {
	repo := acceptingRepo()
	repo.listFunc = func(ctx context.Context, ownerID uuid.UUID) ([]*thumbnail.Thumbnail, error) {
		return nil, apperror.NewUnavailable("store unreachable during list thumbnails", nil)
	}

	reg := NewRegistry(repo, nil, logger.NewNop(), testTTL)

	s, err := reg.Open(context.Background(), uuid.New())
	require.Error(t, err)
	require.NotNil(t, s, "session must exist even when the load failed")
	assert.Equal(t, 0, s.Len())

	same, err := reg.Resolve(context.Background(), s.ID, s.OwnerID)
	assert.NoError(t, err)
	assert.Same(t, s, same)
}

func TestRegistry_ResolveReopensLostSession(t *testing.T) {
	repo := acceptingRepo()
	rec := &thumbnail.Thumbnail{ID: uuid.New(), Title: "Survivor", Category: thumbnail.CategoryGaming, ImageURL: "data:image/png;base64,YQ=="}
	repo.listFunc = func(ctx context.Context, ownerID uuid.UUID) ([]*thumbnail.Thumbnail, error) {
		return []*thumbnail.Thumbnail{rec}, nil
	}

	reg := NewRegistry(repo, nil, logger.NewNop(), testTTL)
	sessionID, ownerID := uuid.New(), uuid.New()

	s, err := reg.Resolve(context.Background(), sessionID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, sessionID, s.ID)
	assert.Equal(t, ownerID, s.OwnerID)
	assert.Equal(t, 1, s.Len())

	reg.Close(sessionID)
	s2, err := reg.Resolve(context.Background(), sessionID, ownerID)
	require.NoError(t, err)
	assert.NotSame(t, s, s2)
}

func TestRegistry_RepeatedLoginsKeepOneSessionPerOwner(t *testing.T) {
	repo := emptyListRepo()
	reg := NewRegistry(repo, nil, logger.NewNop(), testTTL)
	ownerID := uuid.New()

	var last *Session
	for i := 0; i < 50; i++ {
		s, err := reg.Open(context.Background(), ownerID)
		require.NoError(t, err)
		last = s
	}

	assert.Equal(t, 1, reg.Len(), "each login must evict the owner's previous session")

	// Only the freshest session is still resolvable in place.
	same, err := reg.Resolve(context.Background(), last.ID, ownerID)
	require.NoError(t, err)
	assert.Same(t, last, same)
}

func TestRegistry_OpenEvictsOtherOwnersExpiredSessions(t *testing.T) {
	repo := emptyListRepo()
	reg := NewRegistry(repo, nil, logger.NewNop(), testTTL)

	stale, err := reg.Open(context.Background(), uuid.New())
	require.NoError(t, err)
	stale.OpenedAt = time.Now().Add(-2 * testTTL)

	_, err = reg.Open(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 1, reg.Len(), "sessions past the token lifespan must be swept")
}

func TestRegistry_ZeroTTLDisablesSweepNotOwnerEviction(t *testing.T) {
	repo := emptyListRepo()
	reg := NewRegistry(repo, nil, logger.NewNop(), 0)
	ownerID := uuid.New()

	old, err := reg.Open(context.Background(), ownerID)
	require.NoError(t, err)
	old.OpenedAt = time.Now().Add(-24 * time.Hour)

	_, err = reg.Open(context.Background(), ownerID)
	require.NoError(t, err)

	assert.Equal(t, 1, reg.Len())
}
