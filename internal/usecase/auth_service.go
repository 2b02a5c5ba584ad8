package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vinoteca/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// AuthConfig holds configuration for the auth service
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	// BcryptCost overrides the hashing cost; tests lower it to keep hashing
	// fast.
	BcryptCost int
}

// Claims is the JWT payload issued at login
type Claims struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthService handles registration, login and token verification
type AuthService struct {
	users      domain.UserRepository
	secret     []byte
	tokenTTL   time.Duration
	bcryptCost int
	now        func() time.Time
}

// NewAuthService creates an auth service with the given configuration
func NewAuthService(users domain.UserRepository, cfg AuthConfig) *AuthService {
	tokenTTL := cfg.TokenTTL
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	cost := cfg.BcryptCost
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}

	return &AuthService{
		users:      users,
		secret:     []byte(cfg.JWTSecret),
		tokenTTL:   tokenTTL,
		bcryptCost: cost,
		now:        time.Now,
	}
}

// Register creates a new account and returns its id. Email and password are
// required; the password must pass ValidPassword.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (int64, error) {
	if email == "" || password == "" {
		return 0, domain.ErrInvalidRequest
	}
	if !ValidPassword(password) {
		return 0, domain.ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	return s.users.Create(ctx, email, username, string(hash))
}

// Login verifies the credentials and issues a signed token. A missing user
// and a wrong password both map to ErrInvalidCredentials so the response
// does not reveal which one it was.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidRequest
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if user.PasswordHash == "" {
		return "", nil, fmt.Errorf("account %d has no stored password hash", user.ID)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	now := s.now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, user, nil
}

// VerifyToken parses and validates a token issued by Login
func (s *AuthService) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
	}
	if !token.Valid {
		return nil, domain.ErrInvalidCredentials
	}
	return claims, nil
}

// ValidPassword reports whether a password meets the account policy: at
// least 8 characters with at least one uppercase letter, one lowercase
// letter and one digit.
func ValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}
