package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bookshelf/internal/domain/entity"
	repo "github.com/oksasatya/bookshelf/internal/domain/repository"
	"github.com/oksasatya/bookshelf/pkg/helpers"
	"github.com/oksasatya/bookshelf/pkg/validation"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

type AccountService struct {
	Users    repo.UserRepository
	Tokens   *helpers.SessionTokens
	Resets   ResetTokenStore
	Notifier *Notifier
	Logger   *logrus.Logger

	AppBaseURL        string
	ResetRequireToken bool
	ResetTokenTTL     time.Duration
}

func NewAccountService(users repo.UserRepository, tokens *helpers.SessionTokens, resets ResetTokenStore, notifier *Notifier, logger *logrus.Logger) *AccountService {
	return &AccountService{
		Users:             users,
		Tokens:            tokens,
		Resets:            resets,
		Notifier:          notifier,
		Logger:            logger,
		ResetRequireToken: true,
		ResetTokenTTL:     30 * time.Minute,
	}
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,personname"`
	Username string `json:"username" validate:"omitempty,handle"`
	Email    string `json:"email" validate:"required,simpleemail"`
	Password string `json:"password" validate:"required,strongpwd"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

type ChangeEmailInput struct {
	NewEmail string `json:"newEmail" validate:"required,simpleemail"`
	Password string `json:"password" validate:"required"`
}

type ChangeUsernameInput struct {
	NewUsername string `json:"newUsername" validate:"required,handle"`
	Password    string `json:"password" validate:"required"`
}

type ResetPasswordInput struct {
	Email       string `json:"email" validate:"required,simpleemail"`
	NewPassword string `json:"newPassword" validate:"required,strongpwd"`
	Token       string `json:"token"`
}

type SetSlugInput struct {
	Slug string `json:"slug" validate:"required,handle"`
}

func validate(in any) error {
	if err := validation.Struct(in); err != nil {
		return validationError("validation failed", validation.ToDetails(err))
	}
	return nil
}

// Register creates an account. It does not sign the user in.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = validation.NormalizeEmail(in.Email)
	in.Username = validation.NormalizeHandle(in.Username)
	if err := validate(&in); err != nil {
		return nil, err
	}

	if taken, err := s.exists(s.Users.GetByEmail(ctx, in.Email)); err != nil {
		return nil, err
	} else if taken != nil {
		return nil, conflict("email already registered", "email")
	}
	if in.Username != "" {
		if taken, err := s.exists(s.Users.GetByUsername(ctx, in.Username)); err != nil {
			return nil, err
		} else if taken != nil {
			return nil, conflict("username already taken", "username")
		}
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, internal(err)
	}
	u := &entity.User{Name: in.Name, Email: in.Email, PasswordHash: hash}
	if in.Username != "" {
		u.Username = &in.Username
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, s.storeError(err, "register failed")
	}

	s.Notifier.Welcome(ctx, u)
	return u, nil
}

// Login checks credentials and issues a session token. Every credential failure looks the same.
func (s *AccountService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	in.Email = validation.NormalizeEmail(in.Email)
	if err := validate(&in); err != nil {
		return nil, err
	}
	u, err := s.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, &Error{Kind: KindUnauthorized, Message: ErrInvalidCredentials.Error(), Err: ErrInvalidCredentials}
		}
		return nil, s.storeError(err, "login lookup failed")
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, in.Password) {
		return nil, &Error{Kind: KindUnauthorized, Message: ErrInvalidCredentials.Error(), Err: ErrInvalidCredentials}
	}
	token, exp, err := s.Tokens.Issue(u.ID)
	if err != nil {
		helpers.LogError(s.Logger, "issue session token failed", err, logrus.Fields{"user_id": u.ID})
		return nil, internal(err)
	}
	return &LoginResult{User: u, Token: token, ExpiresAt: exp}, nil
}

// Me returns the account behind a verified session.
func (s *AccountService) Me(ctx context.Context, userID string) (*entity.User, error) {
	return s.load(ctx, userID)
}

func (s *AccountService) ChangePassword(ctx context.Context, userID string, in ChangePasswordInput) error {
	if err := validate(&in); err != nil {
		return err
	}
	u, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, in.OldPassword) {
		return validationError("current password is incorrect", map[string]string{"oldPassword": "is incorrect"})
	}
	if probs := validation.PasswordProblems(in.NewPassword); len(probs) > 0 {
		return validationError(strings.Join(probs, ", "), map[string]string{"newPassword": strings.Join(probs, ", ")})
	}
	hash, err := helpers.HashPassword(in.NewPassword)
	if err != nil {
		return internal(err)
	}
	if err := s.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return s.storeError(err, "update password failed")
	}
	s.Notifier.PasswordChanged(ctx, u)
	return nil
}

func (s *AccountService) ChangeEmail(ctx context.Context, userID string, in ChangeEmailInput) (*entity.User, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Password == "" || !helpers.CompareHashAndPassword(u.PasswordHash, in.Password) {
		return nil, validationError("password is incorrect", map[string]string{"password": "is incorrect"})
	}
	in.NewEmail = validation.NormalizeEmail(in.NewEmail)
	if err := validate(&in); err != nil {
		return nil, err
	}
	if other, err := s.exists(s.Users.GetByEmail(ctx, in.NewEmail)); err != nil {
		return nil, err
	} else if other != nil && other.ID != u.ID {
		return nil, conflict("email already in use", "newEmail")
	}

	oldEmail := u.Email
	if err := s.Users.UpdateEmail(ctx, u.ID, in.NewEmail); err != nil {
		return nil, s.storeError(err, "update email failed")
	}
	u.Email = in.NewEmail
	if oldEmail != u.Email {
		s.Notifier.EmailChanged(ctx, u, oldEmail)
	}
	return u, nil
}

func (s *AccountService) ChangeUsername(ctx context.Context, userID string, in ChangeUsernameInput) (*entity.User, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	in.NewUsername = validation.NormalizeHandle(in.NewUsername)
	if !validation.IsHandle(in.NewUsername) {
		return nil, validationError("validation failed", map[string]string{
			"newUsername": "must be between 3 and 20 characters and can only contain letters, numbers, underscores, and hyphens",
		})
	}
	if in.Password == "" || !helpers.CompareHashAndPassword(u.PasswordHash, in.Password) {
		return nil, unauthorized("password is incorrect")
	}
	if other, err := s.exists(s.Users.GetByUsername(ctx, in.NewUsername)); err != nil {
		return nil, err
	} else if other != nil && other.ID != u.ID {
		return nil, conflict("username already taken", "newUsername")
	}
	if err := s.Users.UpdateUsername(ctx, u.ID, in.NewUsername); err != nil {
		return nil, s.storeError(err, "update username failed")
	}
	u.Username = &in.NewUsername
	return u, nil
}

// SetProfileSlug claims a public profile slug for the caller. Slugs are globally unique.
func (s *AccountService) SetProfileSlug(ctx context.Context, userID string, in SetSlugInput) (*entity.User, error) {
	in.Slug = validation.NormalizeHandle(in.Slug)
	if err := validate(&in); err != nil {
		return nil, err
	}
	u, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if other, err := s.exists(s.Users.GetBySlug(ctx, in.Slug)); err != nil {
		return nil, err
	} else if other != nil && other.ID != u.ID {
		return nil, conflict("slug already taken", "slug")
	}
	if err := s.Users.UpdateSlug(ctx, u.ID, in.Slug); err != nil {
		return nil, s.storeError(err, "update slug failed")
	}
	u.ProfileSlug = &in.Slug
	return u, nil
}

// InitPasswordReset mails a reset link when the address belongs to an account.
// It reports success either way so callers cannot probe for registered emails.
func (s *AccountService) InitPasswordReset(ctx context.Context, email string) error {
	email = validation.NormalizeEmail(email)
	if !validation.IsEmail(email) {
		return validationError("validation failed", map[string]string{"email": "must be a valid email"})
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return s.storeError(err, "reset lookup failed")
	}
	if s.Resets == nil {
		return &Error{Kind: KindUnavailable, Message: "password reset is not available"}
	}
	tok, err := genToken(32)
	if err != nil {
		return internal(err)
	}
	if err := s.Resets.Save(ctx, tok, u.ID, s.ResetTokenTTL); err != nil {
		helpers.LogError(s.Logger, "store reset token failed", err, logrus.Fields{"user_id": u.ID})
		return internal(err)
	}
	link := strings.TrimRight(s.AppBaseURL, "/") + "/reset-password?token=" + tok
	s.Notifier.ResetLink(ctx, u, link, time.Now().Add(s.ResetTokenTTL))
	return nil
}

// ResetPassword sets a new password for the account behind email. When ResetRequireToken
// is set the caller must present the token issued by InitPasswordReset.
func (s *AccountService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	in.Email = validation.NormalizeEmail(in.Email)
	in.Token = strings.TrimSpace(in.Token)
	if err := validate(&in); err != nil {
		return err
	}
	u, err := s.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound(ErrUserNotFound.Error())
		}
		return s.storeError(err, "reset lookup failed")
	}

	if s.ResetRequireToken {
		if in.Token == "" {
			return validationError("reset token is required", map[string]string{"token": "is required"})
		}
		if s.Resets == nil {
			return &Error{Kind: KindUnavailable, Message: "password reset is not available"}
		}
		owner, err := s.Resets.Consume(ctx, in.Token)
		if err != nil {
			helpers.LogError(s.Logger, "consume reset token failed", err, logrus.Fields{"user_id": u.ID})
			return internal(err)
		}
		if owner != u.ID {
			return validationError("invalid or expired reset token", map[string]string{"token": "is invalid or expired"})
		}
	}

	hash, err := helpers.HashPassword(in.NewPassword)
	if err != nil {
		return internal(err)
	}
	if err := s.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return s.storeError(err, "reset password failed")
	}
	s.Notifier.PasswordChanged(ctx, u)
	return nil
}

func (s *AccountService) load(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound(ErrUserNotFound.Error())
		}
		return nil, s.storeError(err, "load user failed")
	}
	return u, nil
}

// exists turns a lookup into (match or nil, error), treating ErrNotFound as no match.
func (s *AccountService) exists(u *entity.User, err error) (*entity.User, error) {
	if err == nil {
		return u, nil
	}
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	return nil, s.storeError(err, "uniqueness lookup failed")
}

// storeError maps repository failures: unique violations become conflicts, the rest is logged as internal.
func (s *AccountService) storeError(err error, msg string) error {
	if field := repo.DuplicateField(err); field != "" {
		return conflict(duplicateMessage(field), field)
	}
	if errors.Is(err, repo.ErrNotFound) {
		return notFound(ErrUserNotFound.Error())
	}
	helpers.LogError(s.Logger, msg, err, nil)
	return internal(err)
}

func duplicateMessage(field string) string {
	switch field {
	case "email":
		return "email already in use"
	case "username":
		return "username already taken"
	case "profile_slug":
		return "slug already taken"
	default:
		return field + " already in use"
	}
}
