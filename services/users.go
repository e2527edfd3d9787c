package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"pulse/db"
	"pulse/models"

	"golang.org/x/crypto/argon2"
	"gorm.io/gorm"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type UserService struct{}

func NewUserService() *UserService {
	return &UserService{}
}

func hashPassword(password string, salt []byte) string {
	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, 32)
	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(hash)
}

// Register создает пользователя с уникальным никнеймом.
// Пароль хранится как argon2id хеш в формате salt$hash.
func (us *UserService) Register(ctx context.Context, user *models.User) (int64, error) {
	if user.Nickname == "" || user.Password == "" {
		return 0, errors.New("nickname or password is empty")
	}

	var alreadyExists int64
	err := db.GetReadOnlyDB(ctx).Model(&models.User{}).
		Where("nickname = ?", user.Nickname).
		Count(&alreadyExists).Error
	if err != nil {
		return 0, fmt.Errorf("error checking user existence: %w", err)
	}
	if alreadyExists > 0 {
		return 0, ErrUserExists
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return 0, err
	}
	user.Password = hashPassword(user.Password, salt)

	if err := db.GetWriteDB(ctx).Create(user).Error; err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return user.ID, nil
}

// Login проверяет пароль и выдает новый токен, сбрасывая старые
func (us *UserService) Login(ctx context.Context, nickname, password string) (string, int64, error) {
	var storedUser models.User
	err := db.GetReadOnlyDB(ctx).
		Where("nickname = ?", nickname).
		First(&storedUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", 0, ErrInvalidCredentials
		}
		return "", 0, err
	}

	parts := strings.Split(storedUser.Password, "$")
	if len(parts) != 2 {
		return "", 0, errors.New("invalid password format")
	}
	storedSalt, err := hex.DecodeString(parts[0])
	if err != nil {
		return "", 0, err
	}
	if hashPassword(password, storedSalt) != storedUser.Password {
		return "", 0, ErrInvalidCredentials
	}

	// Удаляем старые токены (если они есть)
	_ = us.Logout(ctx, storedUser.ID)

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", 0, err
	}
	token := hex.EncodeToString(tokenBytes)

	err = db.GetWriteDB(ctx).Create(&models.UserTokens{
		UserID: storedUser.ID,
		Token:  token,
	}).Error
	if err != nil {
		return "", 0, fmt.Errorf("failed to store token: %w", err)
	}
	return token, storedUser.ID, nil
}

// Logout удаляет все токены пользователя
func (us *UserService) Logout(ctx context.Context, userID int64) error {
	return db.GetWriteDB(ctx).
		Where("user_id = ?", userID).
		Delete(&models.UserTokens{}).Error
}

// ResolveToken возвращает id пользователя по токену
func (us *UserService) ResolveToken(ctx context.Context, token string) (int64, error) {
	var userToken models.UserTokens
	err := db.GetReadOnlyDB(ctx).
		Where("token = ?", token).
		First(&userToken).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrInvalidCredentials
		}
		return 0, err
	}
	return userToken.UserID, nil
}

// GetUser возвращает профиль пользователя
func (us *UserService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	err := db.GetReadOnlyDB(ctx).First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile обновляет био и имя. Только свой профиль.
func (us *UserService) UpdateProfile(ctx context.Context, actorID, userID int64, firstName, lastName, bio string) (*models.User, error) {
	if actorID != userID {
		return nil, ErrForbidden
	}

	user, err := us.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FirstName = firstName
	user.LastName = lastName
	user.Bio = bio
	if err := db.GetWriteDB(ctx).Save(user).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// SearchUsers ищет пользователей по префиксу имени и/или фамилии
func SearchUsers(ctx context.Context, firstName, lastName string, limit, offset int) ([]models.User, error) {
	query := db.GetReadOnlyDB(ctx).Model(&models.User{})

	if firstName != "" {
		query = query.Where("first_name LIKE ?", firstName+"%")
	}
	if lastName != "" {
		query = query.Where("last_name LIKE ?", lastName+"%")
	}

	var users []models.User
	err := query.
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}
