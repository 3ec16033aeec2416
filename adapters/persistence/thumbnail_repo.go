package persistence

import (
	"context"
	"errors"
	"fmt"
	"net"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MinKhant07/Thumbnail/internal/domain/thumbnail"
	"github.com/MinKhant07/Thumbnail/pkg/apperror"
	"github.com/MinKhant07/Thumbnail/pkg/logger"
)

type postgresThumbnailRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresThumbnailRepo(db *pgxpool.Pool, log logger.Logger) thumbnail.Repository {
	return &postgresThumbnailRepo{db: db, logger: log}
}

var psqlThumb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// classifyStoreError turns driver failures into typed kinds so callers
// never branch on error message text: communication problems become
// Unavailable, everything the store itself refused becomes Internal.
func classifyStoreError(op string, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return apperror.NewUnavailable(fmt.Sprintf("store unreachable during %s", op), err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return apperror.NewInternal(fmt.Sprintf("store rejected %s (code %s)", op, pgErr.Code), err)
	}
	return apperror.NewInternal(fmt.Sprintf("%s failed", op), err)
}

// Insert assigns the document id on the store side of the boundary and
// enforces the per-document size ceiling the store imposes.
func (r *postgresThumbnailRepo) Insert(ctx context.Context, t *thumbnail.Thumbnail) (uuid.UUID, error) {
	if err := thumbnail.CheckDocumentSize(t.ImageURL); err != nil {
		return uuid.Nil, apperror.NewPayloadTooLarge(
			fmt.Sprintf("encoded image is %d bytes, limit is %d", len(t.ImageURL), thumbnail.MaxDocumentBytes))
	}

	id := uuid.New()
	query := `
		INSERT INTO thumbnails (id, owner_id, title, category, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, id, t.OwnerID, t.Title, t.Category, t.ImageURL, t.CreatedAt)
	if err != nil {
		return uuid.Nil, classifyStoreError("insert thumbnail", err)
	}
	return id, nil
}

func scanThumbnail(row pgx.Row) (*thumbnail.Thumbnail, error) {
	t := &thumbnail.Thumbnail{}
	err := row.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Category, &t.ImageURL, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("thumbnail", "")
		}
		return nil, classifyStoreError("scan thumbnail", err)
	}
	return t, nil
}

func (r *postgresThumbnailRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*thumbnail.Thumbnail, error) {
	builder := psqlThumb.Select("id", "owner_id", "title", "category", "image_url", "created_at").
		From("thumbnails").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC")

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build thumbnail list query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, classifyStoreError("list thumbnails", err)
	}
	defer rows.Close()

	thumbs := make([]*thumbnail.Thumbnail, 0)
	for rows.Next() {
		t, err := scanThumbnail(rows)
		if err != nil {
			return nil, err
		}
		thumbs = append(thumbs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyStoreError("iterate thumbnails", err)
	}
	return thumbs, nil
}

// UpdateFields is deliberately partial: image_url and created_at are
// not in the statement, so they cannot change through this path.
func (r *postgresThumbnailRepo) UpdateFields(ctx context.Context, id, ownerID uuid.UUID, title string, category thumbnail.Category) error {
	query := `
		UPDATE thumbnails SET title = $3, category = $4
		WHERE id = $1 AND owner_id = $2
	`
	cmdTag, err := r.db.Exec(ctx, query, id, ownerID, title, category)
	if err != nil {
		return classifyStoreError("update thumbnail", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("thumbnail", id.String())
	}
	return nil
}

func (r *postgresThumbnailRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	query := `DELETE FROM thumbnails WHERE id = $1 AND owner_id = $2`
	cmdTag, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return classifyStoreError("delete thumbnail", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("thumbnail", id.String())
	}
	return nil
}

func (r *postgresThumbnailRepo) FindByID(ctx context.Context, id, ownerID uuid.UUID) (*thumbnail.Thumbnail, error) {
	query := `
		SELECT id, owner_id, title, category, image_url, created_at
		FROM thumbnails WHERE id = $1 AND owner_id = $2
	`
	row := r.db.QueryRow(ctx, query, id, ownerID)
	return scanThumbnail(row)
}
