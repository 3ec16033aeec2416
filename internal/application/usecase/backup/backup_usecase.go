package backup

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MinKhant07/Thumbnail/internal/application/service"
	"github.com/MinKhant07/Thumbnail/internal/domain/thumbnail"
	"github.com/MinKhant07/Thumbnail/pkg/datauri"
	"github.com/MinKhant07/Thumbnail/pkg/logger"
)

// BackupUseCase copies every stored image off-site: each data URI is
// decoded back to raw bytes and pushed to the upload target. Best
// effort per record, the store is never mutated.
type BackupUseCase struct {
	thumbRepo thumbnail.Repository
	uploader  service.Uploader
	logger    logger.Logger
}

func NewBackupUseCase(repo thumbnail.Repository, uploader service.Uploader, log logger.Logger) *BackupUseCase {
	return &BackupUseCase{
		thumbRepo: repo,
		uploader:  uploader,
		logger:    log,
	}
}

type BackupOutput struct {
	Uploaded int `json:"uploaded"`
	Failed   int `json:"failed"`
}

func (uc *BackupUseCase) Execute(ctx context.Context, ownerID uuid.UUID) (*BackupOutput, error) {
	uc.logger.Info("Starting gallery backup...", zap.String("owner_id", ownerID.String()))

	thumbs, err := uc.thumbRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	folder := fmt.Sprintf("galleries/%s/backup", ownerID.String())
	out := &BackupOutput{}

	for _, t := range thumbs {
		_, data, err := datauri.Decode(t.ImageURL)
		if err != nil {
			uc.logger.Error("Skipping undecodable image", err, zap.String("thumbnail_id", t.ID.String()))
			out.Failed++
			continue
		}

		publicID := t.ID.String()
		if _, err := uc.uploader.Upload(ctx, bytes.NewReader(data), folder, publicID); err != nil {
			uc.logger.Error("Failed to upload backup copy", err, zap.String("thumbnail_id", t.ID.String()))
			out.Failed++
			continue
		}
		out.Uploaded++
	}

	uc.logger.Info("Gallery backup finished",
		zap.Int("uploaded", out.Uploaded),
		zap.Int("failed", out.Failed),
	)
	return out, nil
}
