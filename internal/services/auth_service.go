package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"orderms/internal/models"
	"orderms/internal/repositories"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	// SystemActorID identifies the synthetic integration caller.
	SystemActorID = "system"
)

// AuthService handles login, token issuance and bearer authentication. Two
// credential families share the Authorization header: signed JWTs and a
// static integration token that maps to a role-less system actor.
type AuthService struct {
	userRepo         repositories.UserRepository
	roleRepo         repositories.RoleRepository
	jwtSecret        []byte
	accessDuration   time.Duration
	refreshDuration  time.Duration
	integrationToken string
}

// NewAuthService creates a new AuthService. integrationToken may be empty to
// disable the static-token family.
func NewAuthService(
	userRepo repositories.UserRepository,
	roleRepo repositories.RoleRepository,
	jwtSecret string,
	accessDuration, refreshDuration time.Duration,
	integrationToken string,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		roleRepo:         roleRepo,
		jwtSecret:        []byte(jwtSecret),
		accessDuration:   accessDuration,
		refreshDuration:  refreshDuration,
		integrationToken: integrationToken,
	}
}

// Login authenticates email/password credentials and issues a token pair.
// Misses and bad passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, models.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

// Refresh exchanges a valid refresh token for a new token pair. Failures
// carry a machine-readable code for the client.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.LoginResponse, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return nil, &models.TokenError{Code: "INVALID_REFRESH_TOKEN", Message: "Refresh token is invalid or expired"}
	}
	if claims["typ"] != tokenTypeRefresh {
		return nil, &models.TokenError{Code: "INVALID_TOKEN_TYPE", Message: "Token is not a refresh token"}
	}
	email, _ := claims["sub"].(string)
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, &models.TokenError{Code: "USER_NOT_FOUND", Message: "User not found"}
	}
	resp, err := s.issueTokens(user)
	if err != nil {
		return nil, &models.TokenError{Code: "TOKEN_REFRESH_ERROR", Message: "Failed to refresh token"}
	}
	return resp, nil
}

// ValidateAccess checks an access token and returns the subject email.
// Refresh tokens are type-tagged and never satisfy an access check.
func (s *AuthService) ValidateAccess(tokenString string) (string, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return "", err
	}
	if claims["typ"] != tokenTypeAccess {
		return "", fmt.Errorf("token is not an access token")
	}
	email, ok := claims["sub"].(string)
	if !ok || email == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return email, nil
}

// Authenticate resolves a bearer credential to an Actor. The integration
// token is compared in constant time and yields the system actor with no
// roles; anything else must be a valid access JWT for a known user.
func (s *AuthService) Authenticate(ctx context.Context, bearer string) (*models.Actor, error) {
	if s.integrationToken != "" &&
		subtle.ConstantTimeCompare([]byte(bearer), []byte(s.integrationToken)) == 1 {
		return &models.Actor{ID: SystemActorID, Roles: []string{}}, nil
	}

	email, err := s.ValidateAccess(bearer)
	if err != nil {
		return nil, models.ErrUnauthenticated
	}
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, models.ErrUnauthenticated
	}
	return &models.Actor{ID: user.ID, Email: user.Email, Roles: user.RoleNames()}, nil
}

// CreateUser registers a user with a hashed password and the given role,
// creating the role row on first use.
func (s *AuthService) CreateUser(ctx context.Context, email, password, name, roleName string) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role, err := s.roleRepo.GetByName(ctx, roleName)
	if err != nil {
		role = &models.Role{Name: roleName}
		if err := s.roleRepo.Create(ctx, role); err != nil {
			return nil, err
		}
	}

	user := &models.User{
		Email:    email,
		Password: string(hashed),
		Name:     name,
		Roles:    []models.Role{*role},
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail exposes user lookup for seeding and tests.
func (s *AuthService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.userRepo.GetByEmail(ctx, email)
}

func (s *AuthService) issueTokens(user *models.User) (*models.LoginResponse, error) {
	accessToken, err := s.generateToken(user.Email, tokenTypeAccess, s.accessDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.generateToken(user.Email, tokenTypeRefresh, s.refreshDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessDuration.Seconds()),
		User: models.UserDTO{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
			Roles: user.RoleNames(),
		},
	}, nil
}

func (s *AuthService) generateToken(email, tokenType string, duration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": email,
		"typ": tokenType,
		"iat": now.Unix(),
		"exp": now.Add(duration).Unix(),
	})
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
