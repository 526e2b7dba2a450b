package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"intelliquiz-service/internal/apperr"
	"intelliquiz-service/internal/config"
	"intelliquiz-service/internal/logger"
	"intelliquiz-service/internal/models"
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, update bson.M) error
}

// AuthService handles registration, login and profile management. Tokens are
// HS256 JWTs carrying the user id as subject.
type AuthService struct {
	Users UserStore
	JWT   config.JWTConfig
	Log   *logger.Logger
}

func NewAuthService(users UserStore, jwtCfg config.JWTConfig, log *logger.Logger) *AuthService {
	return &AuthService{Users: users, JWT: jwtCfg, Log: log.With("service", "auth")}
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

const minPasswordLength = 8

func validateRegisterInput(in RegisterInput) error {
	if strings.TrimSpace(in.Username) == "" {
		return apperr.Validationf("username is required")
	}
	if !strings.Contains(in.Email, "@") {
		return apperr.Validationf("invalid email address")
	}
	if len(in.Password) < minPasswordLength {
		return apperr.Validationf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

// Register creates a new account. New users appear on the leaderboard until
// they opt out.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validateRegisterInput(in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		Username:            strings.TrimSpace(in.Username),
		Email:               strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash:        string(hash),
		PreferredDifficulty: models.DifficultyMedium,
		ShowOnLeaderboard:   true,
		EmailNotifications:  true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.Users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.Log.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies the credentials and issues an access token. Invalid email
// and invalid password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, string, error) {
	user, err := s.Users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, "", apperr.Unauthorizedf("invalid email or password")
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, "", apperr.Unauthorizedf("invalid email or password")
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(s.JWT.AccessTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.JWT.Secret))
}

// ParseToken validates the token and returns the user id it was issued for.
func (s *AuthService) ParseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.Unauthorizedf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.JWT.Secret), nil
	})
	if err != nil || !token.Valid {
		return "", apperr.Unauthorizedf("invalid or expired token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", apperr.Unauthorizedf("invalid token claims")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", apperr.Unauthorizedf("invalid token subject")
	}
	return sub, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*models.User, error) {
	return s.Users.FindByID(ctx, userID)
}

// ProfileUpdate carries only the fields a user may change. Pointers
// distinguish "leave as-is" from "set to zero value".
type ProfileUpdate struct {
	Bio                 *string `json:"bio"`
	PreferredDifficulty *string `json:"preferred_difficulty"`
	ShowOnLeaderboard   *bool   `json:"show_on_leaderboard"`
	EmailNotifications  *bool   `json:"email_notifications"`
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*models.User, error) {
	update := bson.M{}
	if in.Bio != nil {
		update["bio"] = *in.Bio
	}
	if in.PreferredDifficulty != nil {
		if !models.ValidDifficulty(*in.PreferredDifficulty) {
			return nil, apperr.Validationf("invalid difficulty level %q", *in.PreferredDifficulty)
		}
		update["preferred_difficulty"] = *in.PreferredDifficulty
	}
	if in.ShowOnLeaderboard != nil {
		update["show_on_leaderboard"] = *in.ShowOnLeaderboard
	}
	if in.EmailNotifications != nil {
		update["email_notifications"] = *in.EmailNotifications
	}

	if len(update) > 0 {
		update["updated_at"] = time.Now().UTC()
		if err := s.Users.UpdateProfile(ctx, userID, update); err != nil {
			return nil, err
		}
	}
	return s.Users.FindByID(ctx, userID)
}
