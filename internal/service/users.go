package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/crucial707/todo-api/internal/auth"
	"github.com/crucial707/todo-api/internal/models"
	"github.com/crucial707/todo-api/internal/repo"
)

// dummyHash is compared against when a username does not exist so that
// unknown users and wrong passwords cost the same bcrypt work.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3ZQmQ3yPC6p0u2a2x3JXaCe"

type registration struct {
	Username string `validate:"required,max=50"`
	Email    string `validate:"required,max=100"`
	Password string `validate:"required"`
}

// UserDirectory registers and authenticates users.
type UserDirectory struct {
	Repo *repo.UserRepo
}

func NewUserDirectory(r *repo.UserRepo) *UserDirectory {
	return &UserDirectory{Repo: r}
}

// Register creates a user after trimming and validating the fields.
// Username uniqueness is checked before email uniqueness.
func (d *UserDirectory) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	in := registration{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		Password: strings.TrimSpace(password),
	}
	if err := validate.Struct(in); err != nil {
		fe := firstFieldError(err)
		if fe == nil {
			return nil, err
		}
		if fe.Tag() == "max" {
			return nil, ValidationError(fe.Field()+" too long",
				fmt.Sprintf("%s must be %s characters or fewer.", strings.ToLower(fe.Field()), fe.Param()))
		}
		return nil, ValidationError("Missing fields", "username, email, password are required")
	}

	taken, err := d.Repo.UsernameExists(ctx, in.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	taken, err = d.Repo.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := d.Repo.Create(ctx, in.Username, in.Email, hash)
	if err != nil {
		if constraint, ok := repo.UniqueViolation(err); ok {
			if strings.Contains(constraint, "email") {
				return nil, ErrEmailTaken
			}
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate returns the user for valid credentials. An unknown username
// and a wrong password produce the same ErrInvalidCredentials.
func (d *UserDirectory) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, ValidationError("Missing fields", "username and password are required")
	}

	user, err := d.Repo.GetByUsername(ctx, username)
	if err != nil {
		if repo.IsNotFound(err) {
			auth.CheckPassword(password, dummyHash)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Get returns the user with id.
func (d *UserDirectory) Get(ctx context.Context, id int) (*models.User, error) {
	user, err := d.Repo.GetByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, NotFoundError(fmt.Sprintf("User %d was not found.", id))
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
