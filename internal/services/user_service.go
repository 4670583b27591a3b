package services

import (
	"context"

	"cardbox_backend/internal/models"
	"cardbox_backend/internal/repositories"
	"cardbox_backend/internal/services/dto"
	"cardbox_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	// UpdateProfile is the only code path that writes username.
	UpdateProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.MeResponse, error)
	GetPublicProfile(ctx context.Context, db *gorm.DB, username string) (*dto.PublicProfileResponse, error)
	ListUsers(ctx context.Context, db *gorm.DB, query *dto.OffsetQuery) (*dto.OffsetPage[dto.AdminUserResponse], error)
	// RoleOf re-reads the role from the store. The admin gate uses it so
	// a role change takes effect immediately instead of after the
	// session token expires.
	RoleOf(ctx context.Context, db *gorm.DB, userID string) (models.UserRole, error)
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) UpdateProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.MeResponse, error) {
	db = db.WithContext(ctx)

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorizedError("Session user no longer exists")
		}
		return nil, apperrors.InternalError(err)
	}

	if req.Username != nil {
		user.Username = req.Username
	}
	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.BannerURL != nil {
		user.BannerURL = *req.BannerURL
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Religion != nil {
		user.Religion = *req.Religion
	}
	if req.Country != nil {
		user.Country = *req.Country
	}
	if req.DateOfBirth != nil {
		user.DateOfBirth = req.DateOfBirth
	}
	if req.ShowEmail != nil {
		user.ShowEmail = *req.ShowEmail
	}
	if req.ShowPhone != nil {
		user.ShowPhone = *req.ShowPhone
	}
	if req.ShowReligion != nil {
		user.ShowReligion = *req.ShowReligion
	}
	if req.ShowCountry != nil {
		user.ShowCountry = *req.ShowCountry
	}
	if req.ShowDateOfBirth != nil {
		user.ShowDateOfBirth = *req.ShowDateOfBirth
	}

	if err := s.userRepo.Save(db, user); err != nil {
		// The username unique index is the authoritative duplicate guard.
		if apperrors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ConflictError("user", "Username is already taken")
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.NewMeResponse(user), nil
}

func (s *userService) GetPublicProfile(ctx context.Context, db *gorm.DB, username string) (*dto.PublicProfileResponse, error) {
	user, err := s.userRepo.FindByUsername(db.WithContext(ctx), username)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NotFoundError("user", "Profile not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.NewPublicProfileResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, db *gorm.DB, query *dto.OffsetQuery) (*dto.OffsetPage[dto.AdminUserResponse], error) {
	limit, offset := query.LimitOffset()

	users, total, err := s.userRepo.List(db.WithContext(ctx), limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.AdminUserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewAdminUserResponse(&users[i]))
	}
	page := query.Page
	if page <= 0 {
		page = 1
	}
	return &dto.OffsetPage[dto.AdminUserResponse]{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

func (s *userService) RoleOf(ctx context.Context, db *gorm.DB, userID string) (models.UserRole, error) {
	user, err := s.userRepo.FindByID(db.WithContext(ctx), userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return "", apperrors.NewUnauthorizedError("Session user no longer exists")
		}
		return "", apperrors.InternalError(err)
	}
	return user.Role, nil
}
