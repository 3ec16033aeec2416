package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/MinKhant07/Thumbnail/internal/domain/thumbnail"
	"github.com/MinKhant07/Thumbnail/internal/domain/user"
	"github.com/MinKhant07/Thumbnail/pkg/apperror"
	"github.com/MinKhant07/Thumbnail/pkg/logger"
)

type ThumbnailRepoIntegrationTestSuite struct {
	suite.Suite
	dbPool      *pgxpool.Pool
	pgContainer *postgres.PostgresContainer
	testLogger  logger.Logger
	thumbRepo   thumbnail.Repository
	testOwner   *user.User
}

func (s *ThumbnailRepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(1*time.Minute),
		),
	)
	if err != nil {
		s.T().Fatalf("Failed to start postgres container: %s", err)
	}
	s.pgContainer = pgContainer

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	m, err := migrate.New("file://../../migrations", dsn)
	if err != nil {
		s.T().Fatalf("Failed to create migrate instance: %s", err)
	}
	if err := m.Up(); err != nil {
		s.T().Fatalf("Failed to run migrations: %s", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		s.T().Fatalf("Failed to create pgxpool: %s", err)
	}
	s.dbPool = pool

	s.testLogger = logger.NewNop()
	s.thumbRepo = NewPostgresThumbnailRepo(s.dbPool, s.testLogger)

	s.testOwner = &user.User{
		ID:           uuid.New(),
		Email:        "testowner@example.com",
		PasswordHash: "hashedpassword",
	}
	query := `INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3)`
	_, err = s.dbPool.Exec(ctx, query, s.testOwner.ID, s.testOwner.Email, s.testOwner.PasswordHash)
	if err != nil {
		s.T().Fatalf("Failed to seed owner: %s", err)
	}
}

func (s *ThumbnailRepoIntegrationTestSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate postgres container: %s", err)
		}
	}
}

func TestThumbnailRepoIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(ThumbnailRepoIntegrationTestSuite))
}

func (s *ThumbnailRepoIntegrationTestSuite) newRecord(title string, createdAt time.Time) *thumbnail.Thumbnail {
	return &thumbnail.Thumbnail{
		OwnerID:   s.testOwner.ID,
		Title:     title,
		Category:  thumbnail.CategoryGaming,
		ImageURL:  "data:image/png;base64,aGVsbG8=",
		CreatedAt: createdAt,
	}
}

func (s *ThumbnailRepoIntegrationTestSuite) Test_Insert_And_FindByID() {
	ctx := context.Background()

	rec := s.newRecord("Insert and find", time.Now().UTC())
	id, err := s.thumbRepo.Insert(ctx, rec)
	s.NoError(err)
	s.NotEqual(uuid.Nil, id)

	found, err := s.thumbRepo.FindByID(ctx, id, s.testOwner.ID)
	s.NoError(err)
	s.NotNil(found)
	s.Equal(rec.Title, found.Title)
	s.Equal(rec.Category, found.Category)
	s.Equal(rec.ImageURL, found.ImageURL)
}

func (s *ThumbnailRepoIntegrationTestSuite) Test_Insert_RejectsOversizedDocument() {
	ctx := context.Background()

	rec := s.newRecord("Too big", time.Now().UTC())
	rec.ImageURL = string(make([]byte, thumbnail.MaxDocumentBytes+1))

	_, err := s.thumbRepo.Insert(ctx, rec)
	s.ErrorIs(err, apperror.ErrPayloadTooLarge)
}

func (s *ThumbnailRepoIntegrationTestSuite) Test_ListByOwner_OrderedNewestFirst() {
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	oldID, err := s.thumbRepo.Insert(ctx, s.newRecord("Order test old", base))
	s.NoError(err)
	newID, err := s.thumbRepo.Insert(ctx, s.newRecord("Order test new", base.Add(time.Minute)))
	s.NoError(err)

	thumbs, err := s.thumbRepo.ListByOwner(ctx, s.testOwner.ID)
	s.NoError(err)

	posOld, posNew := -1, -1
	for i, t := range thumbs {
		switch t.ID {
		case oldID:
			posOld = i
		case newID:
			posNew = i
		}
	}
	s.GreaterOrEqual(posOld, 0)
	s.GreaterOrEqual(posNew, 0)
	s.Less(posNew, posOld, "newer record must come first")
}

func (s *ThumbnailRepoIntegrationTestSuite) Test_UpdateFields_LeavesImageAndTimestamp() {
	ctx := context.Background()

	createdAt := time.Now().UTC().Truncate(time.Microsecond)
	rec := s.newRecord("Original title", createdAt)
	id, err := s.thumbRepo.Insert(ctx, rec)
	s.NoError(err)

	err = s.thumbRepo.UpdateFields(ctx, id, s.testOwner.ID, "Renamed title", thumbnail.CategoryTech)
	s.NoError(err)

	found, err := s.thumbRepo.FindByID(ctx, id, s.testOwner.ID)
	s.NoError(err)
	s.Equal("Renamed title", found.Title)
	s.Equal(thumbnail.CategoryTech, found.Category)
	s.Equal(rec.ImageURL, found.ImageURL)
	s.True(createdAt.Equal(found.CreatedAt))
}

func (s *ThumbnailRepoIntegrationTestSuite) Test_Update_And_Delete_UnknownID() {
	ctx := context.Background()

	err := s.thumbRepo.UpdateFields(ctx, uuid.New(), s.testOwner.ID, "Ghost", thumbnail.CategoryVlog)
	s.ErrorIs(err, apperror.ErrNotFound)

	err = s.thumbRepo.Delete(ctx, uuid.New(), s.testOwner.ID)
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *ThumbnailRepoIntegrationTestSuite) Test_Delete() {
	ctx := context.Background()

	id, err := s.thumbRepo.Insert(ctx, s.newRecord("Delete me", time.Now().UTC()))
	s.NoError(err)

	s.NoError(s.thumbRepo.Delete(ctx, id, s.testOwner.ID))

	_, err = s.thumbRepo.FindByID(ctx, id, s.testOwner.ID)
	s.ErrorIs(err, apperror.ErrNotFound)
}
