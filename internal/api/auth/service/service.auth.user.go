// Package authsvc - account creation, login and lookup.
package authsvc

import (
	"context"
	"errors"
	"strings"
	"time"

	authdto "explorerhub/internal/api/auth/dto"
	models "explorerhub/internal/api/auth/models"
	authtoken "explorerhub/internal/api/auth/token"
	basesvc "explorerhub/internal/api/base/service"
	"explorerhub/internal/common"
	"explorerhub/internal/global"
	"explorerhub/internal/logger"
	"explorerhub/internal/sequence"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

const defaultLanguage = "es"

// UserService handles the users collection.
type UserService struct {
	*basesvc.BaseServiceMongoImpl[models.User]
	ids    basesvc.IDAllocator
	tokens *authtoken.Manager
	cost   int
}

// NewUserService creates the UserService.
func NewUserService(ids basesvc.IDAllocator, tokens *authtoken.Manager) (*UserService, error) {
	userCollection, err := basesvc.Collection(global.MongoDB_ColNames.Users)
	if err != nil {
		return nil, err
	}
	return &UserService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.User](userCollection),
		ids:                  ids,
		tokens:               tokens,
		cost:                 bcrypt.DefaultCost,
	}, nil
}

// Signup creates an account and signs the caller in. The email must be unused.
func (s *UserService) Signup(ctx context.Context, input *authdto.SignupInput) (*authdto.AuthResult, error) {
	email := NormalizeEmail(input.Email)
	exists, err := s.DocumentExists(ctx, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, common.NewError(common.ErrCodeValidationInput, "Password is too long", common.StatusBadRequest, nil)
		}
		return nil, common.NewError(common.ErrCodeInternalServer, common.MsgInternalError, common.StatusInternalServerError, err)
	}

	id, err := s.ids.NextValue(ctx, sequence.Users)
	if err != nil {
		return nil, err
	}

	user := NewUser(id, input, string(hash), time.Now().UTC())
	if _, err := s.InsertOne(ctx, user); err != nil {
		// The unique email index catches a signup racing this one.
		if errors.Is(err, common.ErrMongoDuplicate) {
			return nil, common.ErrEmailTaken
		}
		return nil, err
	}

	logger.WithContext(ctx).WithField("user_id", user.ID).Info("User signed up")
	return s.issue(&user)
}

// Login checks the credentials and returns a fresh token.
func (s *UserService) Login(ctx context.Context, input *authdto.LoginInput) (*authdto.AuthResult, error) {
	user, err := s.FindOne(ctx, bson.M{"email": NormalizeEmail(input.Email)}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(input.Password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}
	return s.issue(&user)
}

// Me returns the account of an authenticated user.
func (s *UserService) Me(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.FindOneByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) issue(user *models.User) (*authdto.AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, user.Role, user.Email)
	if err != nil {
		return nil, common.NewError(common.ErrCodeInternalServer, common.MsgInternalError, common.StatusInternalServerError, err)
	}
	return &authdto.AuthResult{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.tokens.TTL() / time.Second),
		User:        user,
	}, nil
}

// NewUser builds the stored document for a signup. Role defaults to client, language to "es".
func NewUser(id int64, input *authdto.SignupInput, hashedPassword string, now time.Time) models.User {
	role := input.Role
	if role == "" {
		role = models.RoleClient
	}
	language := input.Language
	if language == "" {
		language = defaultLanguage
	}
	preferences := input.Preferences
	if preferences == nil {
		preferences = []string{}
	}
	return models.User{
		ID:             id,
		Email:          NormalizeEmail(input.Email),
		FullName:       strings.TrimSpace(input.FullName),
		Role:           role,
		HashedPassword: hashedPassword,
		BirthDate:      input.BirthDate,
		Country:        input.Country,
		Language:       language,
		Preferences:    preferences,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// NormalizeEmail lowercases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
