package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"writers-api/internal/domain"
	"writers-api/internal/repository"
	"writers-api/internal/throttle"
	"writers-api/internal/validation"
)

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned when registering with an email that already exists.
	ErrEmailTaken = errors.New("email already taken")
	// ErrUserNotFound is returned when a user id resolves to no record.
	ErrUserNotFound = errors.New("user not found")
	// ErrAlreadyVerified is returned when resending to a verified address.
	ErrAlreadyVerified = errors.New("email already verified")
)

// ThrottledError reports that an action is rate limited for RetryAfter.
type ThrottledError struct {
	RetryAfter time.Duration
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("throttled, retry after %s", e.RetryAfter)
}

// UserService describes user lifecycle operations.
type UserService interface {
	EmailTaken(ctx context.Context, email string) (bool, error)
	Register(ctx context.Context, reg validation.Registration) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// MarkEmailVerified sets the verification timestamp once; later calls are no-ops.
	MarkEmailVerified(ctx context.Context, id int64) error
	ResendVerification(ctx context.Context, id int64) error
	ListWriters(ctx context.Context) ([]domain.Writer, error)
}

// Option customizes a UserService.
type Option func(*userService)

// WithPasswordCost overrides the bcrypt cost.
func WithPasswordCost(cost int) Option {
	return func(s *userService) { s.hashCost = cost }
}

// WithResendLimiter throttles verification resends per user.
func WithResendLimiter(l throttle.Limiter) Option {
	return func(s *userService) { s.limiter = l }
}

type userService struct {
	users    repository.UserRepository
	mailer   *VerificationMailer
	limiter  throttle.Limiter
	hashCost int
	now      func() time.Time
}

func NewUserService(users repository.UserRepository, mailer *VerificationMailer, opts ...Option) UserService {
	s := &userService{
		users:    users,
		mailer:   mailer,
		limiter:  throttle.Nop{},
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *userService) EmailTaken(ctx context.Context, email string) (bool, error) {
	return s.users.EmailExists(ctx, email)
}

func (s *userService) Register(ctx context.Context, reg validation.Registration) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         reg.Name,
		Email:        reg.Email,
		Bio:          reg.Bio,
		PasswordHash: string(hash),
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.mailer.Dispatch(user)
	return sanitizeUser(user), nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return sanitizeUser(user), nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) MarkEmailVerified(ctx context.Context, id int64) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.HasVerifiedEmail() {
		return nil
	}
	if _, err := s.users.MarkEmailVerified(ctx, id, s.now()); err != nil {
		return err
	}
	return nil
}

func (s *userService) ResendVerification(ctx context.Context, id int64) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.HasVerifiedEmail() {
		return ErrAlreadyVerified
	}

	ok, wait, err := s.limiter.Allow(ctx, "resend", id)
	if err != nil {
		return err
	}
	if !ok {
		return &ThrottledError{RetryAfter: wait}
	}

	s.mailer.Dispatch(user)
	return nil
}

func (s *userService) ListWriters(ctx context.Context) ([]domain.Writer, error) {
	return s.users.ListNames(ctx)
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	clean := *user
	clean.PasswordHash = ""
	return &clean
}
