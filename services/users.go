package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cppla/dollarblog/models"
	"github.com/cppla/dollarblog/utils"
)

// UserService is the credential store.
type UserService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewUserService(db *gorm.DB, log *zap.Logger) *UserService {
	return &UserService{db: db, log: log}
}

// Register stores a new user with a bcrypt hash of password.
func (s *UserService) Register(ctx context.Context, fullName, username, password string) (models.UserSummary, error) {
	fullName = strings.TrimSpace(fullName)
	username = strings.TrimSpace(username)
	if fullName == "" || username == "" || password == "" {
		return models.UserSummary{}, utils.NewValidationError("fullName, username and password are required")
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return models.UserSummary{}, utils.NewInternalError("failed to check username", err)
	}
	if count > 0 {
		return models.UserSummary{}, utils.NewConflictError("Username already exists")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooLong) {
			return models.UserSummary{}, utils.NewValidationError("password is too long")
		}
		return models.UserSummary{}, utils.NewInternalError("failed to hash password", err)
	}

	user := models.User{FullName: fullName, Username: username, PasswordHash: hash}
	if err := db.Create(&user).Error; err != nil {
		// lost a race against a concurrent registration
		if isDuplicateKey(err) {
			return models.UserSummary{}, utils.NewConflictError("Username already exists")
		}
		return models.UserSummary{}, utils.NewInternalError("failed to create user", err)
	}

	s.log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return user.Summary(), nil
}

// Authenticate finds the user by exact (username, fullName) and checks password.
func (s *UserService) Authenticate(ctx context.Context, fullName, username, password string) (utils.Identity, error) {
	fullName = strings.TrimSpace(fullName)
	username = strings.TrimSpace(username)
	if fullName == "" || username == "" || password == "" {
		return utils.Identity{}, utils.NewValidationError("fullName, username and password are required")
	}

	var user models.User
	err := s.db.WithContext(ctx).
		Where("username = ? AND full_name = ?", username, fullName).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Identity{}, utils.NewNotFoundError("User not found")
	}
	if err != nil {
		return utils.Identity{}, utils.NewInternalError("failed to load user", err)
	}

	if !utils.CheckPassword(user.PasswordHash, password) {
		return utils.Identity{}, utils.NewAppError(utils.ErrUnauthorized, "Wrong password", nil)
	}

	return utils.Identity{UserID: user.ID, Username: user.Username, FullName: user.FullName}, nil
}

// Count returns the number of registered users.
func (s *UserService) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, utils.NewInternalError("failed to count users", err)
	}
	return n, nil
}
