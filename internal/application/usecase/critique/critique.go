// Package critique runs the on-demand generative review of one encoded
// image. The transform is stateless; results are cached by image
// digest so repeated reviews of the same picture cost nothing.
package critique

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"go.uber.org/zap"

	"github.com/MinKhant07/Thumbnail/internal/application/service"
	"github.com/MinKhant07/Thumbnail/internal/domain/thumbnail"
	"github.com/MinKhant07/Thumbnail/pkg/apperror"
	"github.com/MinKhant07/Thumbnail/pkg/logger"
)

type CritiqueUseCase struct {
	critic   service.Critic
	cache    service.CritiqueCache
	cacheTTL time.Duration
	logger   logger.Logger
}

func NewCritiqueUseCase(critic service.Critic, cache service.CritiqueCache, cacheTTL time.Duration, log logger.Logger) *CritiqueUseCase {
	return &CritiqueUseCase{
		critic:   critic,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log,
	}
}

type CritiqueInput struct {
	// ImageData is the data-URI encoded image, same encoding as stored
	// thumbnails.
	ImageData string
}

type CritiqueOutput struct {
	Critique *thumbnail.Critique `json:"critique"`
	Cached   bool                `json:"cached"`
}

func digest(imageData string) string {
	sum := sha256.Sum256([]byte(imageData))
	return hex.EncodeToString(sum[:])
}

func (uc *CritiqueUseCase) Execute(ctx context.Context, input CritiqueInput) (*CritiqueOutput, error) {
	if input.ImageData == "" {
		return nil, apperror.NewInvalidInput("no image provided for critique", nil)
	}

	key := digest(input.ImageData)

	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, key)
		if err != nil {
			uc.logger.Warn("Critique cache read failed", zap.Error(err))
		} else if cached != nil {
			return &CritiqueOutput{Critique: cached, Cached: true}, nil
		}
	}

	crit, err := uc.critic.Critique(ctx, input.ImageData)
	if err != nil {
		uc.logger.Error("Critique generation failed", err)
		return nil, apperror.NewInternal("failed to generate critique", err)
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, crit, uc.cacheTTL); err != nil {
			uc.logger.Warn("Critique cache write failed", zap.Error(err))
		}
	}

	return &CritiqueOutput{Critique: crit}, nil
}
