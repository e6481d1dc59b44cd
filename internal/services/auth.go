package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"alfredoptarigan/skillsync/internal/apperror"
	"alfredoptarigan/skillsync/internal/models"
	"alfredoptarigan/skillsync/internal/repositories"
)

const tokenType = "bearer"

// Claims identifies the caller by email; role is informational only, the
// stored user is always reloaded.
type Claims struct {
	Role models.UserRole `json:"role"`
	jwt.StandardClaims
}

type AuthService interface {
	Register(req models.RegisterRequest) (*models.User, error)
	Login(req models.LoginRequest) (*models.TokenResponse, error)
	IssueToken(user *models.User) (*models.TokenResponse, error)
	Authenticate(tokenString string) (*models.User, error)
	UpdateProfile(user *models.User, req models.UserUpdateRequest) (*models.User, error)
}

type authService struct {
	userRepo repositories.UserRepository
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewAuthService(userRepo repositories.UserRepository, secret string, tokenTTL time.Duration) AuthService {
	return &authService{
		userRepo: userRepo,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

func (s *authService) Register(req models.RegisterRequest) (*models.User, error) {
	email := normalizeEmail(req.Email)

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, apperror.BadRequest("Email already registered")
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperror.Internal("failed to register user", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleApplicant
	}
	if role != models.RoleApplicant && role != models.RoleRecruiter {
		return nil, apperror.BadRequest("Invalid role")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal("failed to hash password", err)
	}

	user := &models.User{
		Email:          email,
		HashedPassword: string(hashed),
		FullName:       strings.TrimSpace(req.FullName),
		Role:           role,
		IsActive:       true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, apperror.Internal("failed to register user", err)
	}

	return user, nil
}

func (s *authService) Login(req models.LoginRequest) (*models.TokenResponse, error) {
	user, err := s.userRepo.FindByEmail(normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.Unauthorized("Incorrect email or password")
		}
		return nil, apperror.Internal("failed to login", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthorized("Incorrect email or password")
	}

	if !user.IsActive {
		return nil, apperror.BadRequest("Inactive user")
	}

	return s.IssueToken(user)
}

func (s *authService) IssueToken(user *models.User) (*models.TokenResponse, error) {
	expiresAt := s.now().Add(s.tokenTTL)
	claims := &Claims{
		Role: user.Role,
		StandardClaims: jwt.StandardClaims{
			Subject:   user.Email,
			IssuedAt:  s.now().Unix(),
			ExpiresAt: expiresAt.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, apperror.Internal("failed to sign token", err)
	}

	return &models.TokenResponse{
		AccessToken: signed,
		TokenType:   tokenType,
		ExpiresAt:   expiresAt,
	}, nil
}

// Authenticate resolves a bearer token to an active user.
func (s *authService) Authenticate(tokenString string) (*models.User, error) {
	credentialsErr := apperror.Unauthorized("Could not validate credentials")

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil, credentialsErr
	}

	user, err := s.userRepo.FindByEmail(claims.Subject)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, credentialsErr
		}
		return nil, apperror.Internal("failed to load user", err)
	}

	if !user.IsActive {
		return nil, apperror.BadRequest("Inactive user")
	}

	return user, nil
}

func (s *authService) UpdateProfile(user *models.User, req models.UserUpdateRequest) (*models.User, error) {
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != user.Email {
			if _, err := s.userRepo.FindByEmail(email); err == nil {
				return nil, apperror.BadRequest("Email already registered")
			} else if !errors.Is(err, repositories.ErrNotFound) {
				return nil, apperror.Internal("failed to update user", err)
			}
			user.Email = email
		}
	}
	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperror.Internal("failed to hash password", err)
		}
		user.HashedPassword = string(hashed)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, apperror.Internal("failed to update user", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
