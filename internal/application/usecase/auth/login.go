package auth

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/MinKhant07/Thumbnail/internal/application/usecase/gallery"
	"github.com/MinKhant07/Thumbnail/internal/domain/user"
	"github.com/MinKhant07/Thumbnail/pkg/apperror"
	"github.com/MinKhant07/Thumbnail/pkg/auth"
	"github.com/MinKhant07/Thumbnail/pkg/logger"
)

var (
	ErrInvalidCredentials = errors.New("email or password is incorrect")
)

type LoginUseCase struct {
	userRepo user.Repository
	jwtSvc   *auth.JWTService
	sessions *gallery.Registry
	logger   logger.Logger
}

func NewLoginUseCase(repo user.Repository, jwtSvc *auth.JWTService, sessions *gallery.Registry, log logger.Logger) *LoginUseCase {
	return &LoginUseCase{
		userRepo: repo,
		jwtSvc:   jwtSvc,
		sessions: sessions,
		logger:   log,
	}
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	AccessToken string
	// GalleryLoaded is false when the initial gallery load failed; the
	// session is still usable, just empty until the user logs in again.
	GalleryLoaded bool
}

var tracer = otel.Tracer("auth_usecase")

// Execute checks credentials, opens the gallery session for this login
// and issues a token bound to it.
func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*LoginOutput, error) {

	ctx, span := tracer.Start(ctx, "Execute")
	defer span.End()

	u, err := uc.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, apperror.ErrNotFound) {
			// Unknown email and wrong password answer the same way.
			return nil, apperror.NewUnauthorized("incorrect credentials", nil)
		}
		return nil, err
	}

	if !auth.CheckPasswordHash(input.Password, u.PasswordHash) {
		err := apperror.NewUnauthorized("incorrect password", nil)
		span.RecordError(err)
		return nil, err
	}

	session, loadErr := uc.sessions.Open(ctx, u.ID)
	if loadErr != nil {
		// Non-fatal: an empty but usable gallery.
		uc.logger.Warn("Gallery load failed at login", zap.Error(loadErr), zap.String("owner_id", u.ID.String()))
	}

	token, err := uc.jwtSvc.GenerateToken(u.ID, session.ID)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("user_id", u.ID.String()))
		err = apperror.NewInternal("failed to generate token", err)
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("user_id", u.ID.String()))
	return &LoginOutput{AccessToken: token, GalleryLoaded: loadErr == nil}, nil
}
