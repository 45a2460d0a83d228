package controller

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/ekotto/cashbook/internal/auth"
	"github.com/ekotto/cashbook/internal/dto"
	"github.com/ekotto/cashbook/internal/models"
	"github.com/ekotto/cashbook/internal/observability"
	"github.com/ekotto/cashbook/internal/repository"
)

// UserController handles sign-up, authentication and the secret-question
// password reset flow. Plaintext secrets only ever exist in its arguments;
// everything persisted is an opaque digest.
type UserController struct {
	users     repository.UserRepository
	hasher    auth.Hasher
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewUserController constructs the user controller.
func NewUserController(users repository.UserRepository, hasher auth.Hasher, validate *validator.Validate, logger zerolog.Logger) *UserController {
	return &UserController{
		users:     users,
		hasher:    hasher,
		validator: validate,
		logger:    logger.With().Str("component", "user_controller").Logger(),
		tracer:    otel.Tracer("github.com/ekotto/cashbook/internal/controller/user"),
	}
}

// CreateUser registers a new user, hashing both the password and the secret
// answer before anything touches the store. A taken username surfaces as
// ErrDuplicate.
func (c *UserController) CreateUser(ctx context.Context, username, password, secretQuestion, secretAnswer string) (*models.User, error) {
	ctx, span := c.tracer.Start(ctx, "user.create")
	defer span.End()
	span.SetAttributes(attribute.String("user.username", username))

	input := dto.CreateUserInput{
		Username:       username,
		Password:       password,
		SecretQuestion: secretQuestion,
		SecretAnswer:   secretAnswer,
	}
	if err := c.validator.Struct(input); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return nil, err
	}

	if !auth.KnownQuestion(secretQuestion) {
		span.SetStatus(codes.Error, "unknown secret question")
		return nil, ErrUnknownQuestion
	}

	passwordHash, err := c.hasher.Hash(password)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	answerHash, err := c.hasher.Hash(secretAnswer)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	user := models.User{
		Username:         username,
		PasswordHash:     passwordHash,
		SecretQuestion:   secretQuestion,
		SecretAnswerHash: answerHash,
	}
	if err := c.users.Create(ctx, &user); err != nil {
		span.RecordError(err)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			span.SetStatus(codes.Error, "username taken")
			return nil, ErrDuplicate
		}
		span.SetStatus(codes.Error, "persistence failed")
		return nil, &StoreError{Table: "users", Op: "create", Err: err}
	}

	c.logger.Info().Str("username", username).Uint("id", user.ID).Msg("user created")

	return &user, nil
}

// AuthenticateUser verifies a username/password pair. An unknown username is a
// plain false, not an error, so the sign-in form treats both failure modes
// alike.
func (c *UserController) AuthenticateUser(ctx context.Context, username, password string) (bool, error) {
	ctx, span := c.tracer.Start(ctx, "user.authenticate")
	defer span.End()
	span.SetAttributes(attribute.String("user.username", username))

	user, err := c.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.SignInAttempts().WithLabelValues("failure").Inc()
			return false, nil
		}
		span.RecordError(err)
		return false, &StoreError{Table: "users", Op: "lookup", Err: err}
	}

	ok, err := c.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "stored hash unreadable")
		return false, err
	}

	if ok {
		observability.SignInAttempts().WithLabelValues("success").Inc()
	} else {
		observability.SignInAttempts().WithLabelValues("failure").Inc()
	}

	return ok, nil
}

// ChangePassword rehashes and persists a new password. Returns false when the
// username is unknown.
func (c *UserController) ChangePassword(ctx context.Context, username, newPassword string) (bool, error) {
	user, err := c.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, &StoreError{Table: "users", Op: "lookup", Err: err}
	}

	hash, err := c.hasher.Hash(newPassword)
	if err != nil {
		return false, err
	}

	user.PasswordHash = hash
	if err := c.users.Save(ctx, &user); err != nil {
		return false, &StoreError{Table: "users", Op: "update", Err: err}
	}

	c.logger.Info().Str("username", username).Msg("password changed")

	return true, nil
}

// GetSecretQuestion returns the stored question text, or an empty string when
// the username is unknown. The question itself is not a secret.
func (c *UserController) GetSecretQuestion(ctx context.Context, username string) (string, error) {
	user, err := c.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", &StoreError{Table: "users", Op: "lookup", Err: err}
	}

	return user.SecretQuestion, nil
}

// VerifySecretAnswer checks the secret answer against its stored digest.
// Unknown username or mismatch are both a plain false.
func (c *UserController) VerifySecretAnswer(ctx context.Context, username, answer string) (bool, error) {
	user, err := c.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, &StoreError{Table: "users", Op: "lookup", Err: err}
	}

	return c.hasher.Verify(answer, user.SecretAnswerHash)
}

// ResetPassword changes the password only when the secret answer verifies.
func (c *UserController) ResetPassword(ctx context.Context, username, newPassword, answer string) (bool, error) {
	ctx, span := c.tracer.Start(ctx, "user.reset_password")
	defer span.End()
	span.SetAttributes(attribute.String("user.username", username))

	ok, err := c.VerifySecretAnswer(ctx, username, answer)
	if err != nil {
		span.RecordError(err)
		return false, err
	}
	if !ok {
		observability.PasswordResets().WithLabelValues("failure").Inc()
		span.SetStatus(codes.Error, "secret answer rejected")
		return false, nil
	}

	changed, err := c.ChangePassword(ctx, username, newPassword)
	if err != nil {
		span.RecordError(err)
		return false, err
	}

	if changed {
		observability.PasswordResets().WithLabelValues("success").Inc()
	}

	return changed, nil
}

// SetSecretQuestion replaces the secret question and its hashed answer.
// Returns false when the username is unknown.
func (c *UserController) SetSecretQuestion(ctx context.Context, username, question, answer string) (bool, error) {
	if !auth.KnownQuestion(question) {
		return false, ErrUnknownQuestion
	}

	user, err := c.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, &StoreError{Table: "users", Op: "lookup", Err: err}
	}

	hash, err := c.hasher.Hash(answer)
	if err != nil {
		return false, err
	}

	user.SecretQuestion = question
	user.SecretAnswerHash = hash
	if err := c.users.Save(ctx, &user); err != nil {
		return false, &StoreError{Table: "users", Op: "update", Err: err}
	}

	return true, nil
}

// GetUser returns the identity the GUI keeps for the session. Unknown
// username surfaces as ErrNotFound.
func (c *UserController) GetUser(ctx context.Context, username string) (dto.UserIdentity, error) {
	user, err := c.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserIdentity{}, ErrNotFound
		}
		return dto.UserIdentity{}, &StoreError{Table: "users", Op: "lookup", Err: err}
	}

	return dto.UserIdentity{ID: user.ID, Username: user.Username}, nil
}
