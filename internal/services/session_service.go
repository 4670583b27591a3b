package services

import (
	"context"
	"strings"

	"cardbox_backend/internal/auth"
	"cardbox_backend/internal/identity"
	"cardbox_backend/internal/logger"
	"cardbox_backend/internal/models"
	"cardbox_backend/internal/repositories"
	"cardbox_backend/internal/services/dto"
	"cardbox_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// placeholderDisplayName is used when the provider supplies no usable name.
const placeholderDisplayName = "New Member"

type SessionService interface {
	// Login verifies the provider token, reconciles the local user and
	// returns the user together with a signed session token.
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*models.User, string, error)
	// Me returns the identity + billing summary for the session's user.
	Me(ctx context.Context, db *gorm.DB, userID string) (*dto.MeResponse, error)
	// Reconcile bridges a verified external identity to the local user
	// row. Exposed on the interface for tests; Login is its only
	// production caller.
	Reconcile(ctx context.Context, db *gorm.DB, claims *identity.Claims, sensitive *dto.SensitiveClaims) (*models.User, error)
}

type sessionService struct {
	userRepo repositories.UserRepository
	verifier identity.Verifier
	tokens   *auth.TokenService
}

func NewSessionService(userRepo repositories.UserRepository, verifier identity.Verifier, tokens *auth.TokenService) SessionService {
	return &sessionService{
		userRepo: userRepo,
		verifier: verifier,
		tokens:   tokens,
	}
}

func (s *sessionService) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*models.User, string, error) {
	claims, err := s.verifier.Verify(ctx, req.Token)
	if err != nil {
		// Provider-side failures all read as "not authenticated" - the
		// caller gets no detail about why the token was rejected.
		logger.CtxWarn(ctx, "identity token rejected", "error", err.Error())
		return nil, "", apperrors.NewUnauthorizedError("Invalid or expired identity token")
	}

	user, err := s.Reconcile(ctx, db, claims, req.Sensitive)
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", apperrors.InternalError(err)
	}
	return user, token, nil
}

// Reconcile implements the provider-owns-provider-fields rule:
//   - first encounter creates the row from non-empty claims, leaving
//     username unset;
//   - later encounters refresh email / display name / avatar with any
//     non-empty incoming value, falling back to the stored value
//     (provider claims never null a field out);
//   - phone, religion and country are fill-once: written only while the
//     stored value is empty, so a user's own edit is never clobbered by
//     a stale provider claim.
//
// Missing optional claims are not an error.
func (s *sessionService) Reconcile(ctx context.Context, db *gorm.DB, claims *identity.Claims, sensitive *dto.SensitiveClaims) (*models.User, error) {
	db = db.WithContext(ctx)

	incoming := incomingProfile(claims, sensitive)

	user, err := s.userRepo.FindByExternalID(db, claims.Subject)
	if err != nil {
		if !apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.InternalError(err)
		}
		return s.createFromClaims(ctx, db, claims.Subject, incoming)
	}

	// Provider-owned fields: refresh, never null out.
	if incoming.email != "" {
		user.Email = incoming.email
	}
	if incoming.displayName != "" {
		user.DisplayName = incoming.displayName
	}
	if incoming.avatarURL != "" {
		user.AvatarURL = incoming.avatarURL
	}

	// Fill-once fields.
	if user.Phone == "" && incoming.phone != "" {
		user.Phone = incoming.phone
	}
	if user.Religion == "" && incoming.religion != "" {
		user.Religion = incoming.religion
	}
	if user.Country == "" && incoming.country != "" {
		user.Country = incoming.country
	}

	if err := s.userRepo.Save(db, user); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *sessionService) createFromClaims(ctx context.Context, db *gorm.DB, externalID string, incoming profileClaims) (*models.User, error) {
	displayName := incoming.displayName
	if displayName == "" {
		displayName = placeholderDisplayName
	}

	user := &models.User{
		ExternalID:  externalID,
		Email:       incoming.email,
		DisplayName: displayName,
		AvatarURL:   incoming.avatarURL,
		Phone:       incoming.phone,
		Religion:    incoming.religion,
		Country:     incoming.country,
		Role:        models.UserRoleUser,
		Plan:        "free",
	}

	if err := s.userRepo.Create(db, user); err != nil {
		return nil, apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "created user from first login", "user_id", user.ID)
	return user, nil
}

func (s *sessionService) Me(ctx context.Context, db *gorm.DB, userID string) (*dto.MeResponse, error) {
	user, err := s.userRepo.FindByID(db.WithContext(ctx), userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorizedError("Session user no longer exists")
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.NewMeResponse(user), nil
}

// profileClaims is the trimmed, empties-dropped view of the incoming
// provider + caller-supplied claims.
type profileClaims struct {
	email       string
	displayName string
	avatarURL   string
	phone       string
	religion    string
	country     string
}

func incomingProfile(claims *identity.Claims, sensitive *dto.SensitiveClaims) profileClaims {
	incoming := profileClaims{
		email:       strings.TrimSpace(claims.Email),
		displayName: strings.TrimSpace(claims.DisplayName()),
		avatarURL:   strings.TrimSpace(claims.Picture),
	}
	if sensitive != nil {
		incoming.phone = strings.TrimSpace(sensitive.Phone)
		incoming.religion = strings.TrimSpace(sensitive.Religion)
		incoming.country = strings.TrimSpace(sensitive.Country)
	}
	return incoming
}
