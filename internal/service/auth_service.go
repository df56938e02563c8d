package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/danishsenju/fixmyhood/internal/dto"
	"github.com/danishsenju/fixmyhood/internal/model"
	"github.com/danishsenju/fixmyhood/internal/repository"
	"github.com/danishsenju/fixmyhood/pkg/apperror"
	"github.com/danishsenju/fixmyhood/pkg/storage"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AvatarFile is an uploaded avatar image.
type AvatarFile struct {
	Reader   io.Reader
	FileName string
}

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterRequest, avatar *AvatarFile) (*dto.AuthResponse, error)
	Login(ctx context.Context, input dto.LoginRequest) (*dto.AuthResponse, error)
}

type authService struct {
	profileRepo  repository.ProfileRepository
	photoStorage storage.PhotoStorage
	secret       string
	tokenTTL     time.Duration
}

func NewAuthService(profileRepo repository.ProfileRepository, photoStorage storage.PhotoStorage) AuthService {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "change-me"
	}

	ttl := 24 * time.Hour
	if ttlStr := os.Getenv("JWT_TTL_MINUTES"); ttlStr != "" {
		if minutes, err := strconv.Atoi(ttlStr); err == nil {
			ttl = time.Duration(minutes) * time.Minute
		}
	}

	return &authService{
		profileRepo:  profileRepo,
		photoStorage: photoStorage,
		secret:       secret,
		tokenTTL:     ttl,
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterRequest, avatar *AvatarFile) (*dto.AuthResponse, error) {
	if _, err := s.profileRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperror.New(409, "email already registered", apperror.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	profile := &model.Profile{
		DisplayName:  input.DisplayName,
		Email:        input.Email,
		PasswordHash: string(hashed),
		ActiveFrame:  model.FrameDefault,
	}

	if avatar != nil && s.photoStorage != nil {
		url, err := s.photoStorage.UploadPhoto(ctx, avatar.Reader, "avatars", avatar.FileName)
		if err != nil {
			return nil, fmt.Errorf("failed to upload avatar: %w", err)
		}
		profile.AvatarURL = &url
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}

	return s.issueToken(profile)
}

func (s *authService) Login(ctx context.Context, input dto.LoginRequest) (*dto.AuthResponse, error) {
	profile, err := s.profileRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.ErrUnauthorized
	}

	if profile.IsBanned {
		return nil, apperror.New(403, "account is banned", apperror.ErrForbidden)
	}

	return s.issueToken(profile)
}

func (s *authService) issueToken(profile *model.Profile) (*dto.AuthResponse, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   profile.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &dto.AuthResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
		Profile: dto.ProfileResponse{
			ID:          profile.ID.String(),
			DisplayName: profile.DisplayName,
			AvatarURL:   profile.AvatarURL,
			Points:      profile.Points,
			IsAdmin:     profile.IsAdmin,
			ActiveFrame: profile.ActiveFrame,
			CreatedAt:   profile.CreatedAt,
		},
	}, nil
}
