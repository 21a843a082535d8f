// Package service implements authentication and user administration:
// email and password login issuing JWT access tokens, seeded demo
// accounts, and the admin user lifecycle with self-protection rules.
package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"bess_quote_backend/internal/auth/password"
	"bess_quote_backend/internal/auth/repository"
	"bess_quote_backend/internal/auth/transport"
	"bess_quote_backend/internal/events"
	"bess_quote_backend/platform/apperr"
	"bess_quote_backend/platform/config"
	"bess_quote_backend/platform/logger"
)

// QuoteStatsProvider supplies per-user quoting aggregates from the quotes
// module.
type QuoteStatsProvider interface {
	UserQuoteStats(ctx context.Context, userID uuid.UUID) (total int, thisMonth int, totalValue float64, err error)
}

// ActivityReader supplies the timestamp of a user's latest logged activity.
type ActivityReader interface {
	LastActivity(ctx context.Context, userID uuid.UUID) (*time.Time, error)
}

// Actor identifies the authenticated user performing an operation.
type Actor struct {
	ID   uuid.UUID
	Name string
}

// Service implements auth business logic.
type Service struct {
	repo       repository.Repository
	cfg        config.AuthServiceConfig
	bus        events.Bus
	log        *logger.Logger
	quoteStats QuoteStatsProvider
	activity   ActivityReader
	now        func() time.Time
}

// New creates an auth service. quoteStats and activity are injected later
// by the composition root because of module initialization order.
func New(repo repository.Repository, cfg config.AuthServiceConfig, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo: repo,
		cfg:  cfg,
		bus:  bus,
		log:  log,
		now:  time.Now,
	}
}

// BindStatsProviders wires the cross-module stat sources.
func (s *Service) BindStatsProviders(quoteStats QuoteStatsProvider, activity ActivityReader) {
	s.quoteStats = quoteStats
	s.activity = activity
}

// Login authenticates by email and password and issues an access token.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest) (*transport.LoginResponse, error) {
	const op = "auth.service.Login"

	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		s.log.AuthEvent("login_failed", req.Email, false, "unknown email")
		return nil, apperr.Unauthorized("invalid credentials").WithOp(op).WithCode("invalid_credentials")
	}

	if !user.IsActive {
		s.log.AuthEvent("login_disabled", user.Email, false, "account disabled")
		return nil, apperr.Forbidden("account disabled").WithOp(op).WithCode("account_disabled")
	}

	if err := password.Compare(user.PasswordHash, req.Password); err != nil {
		s.log.AuthEvent("login_failed", user.Email, false, "wrong password")
		return nil, apperr.Unauthorized("invalid credentials").WithOp(op).WithCode("invalid_credentials")
	}

	now := s.now()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now

	ttl := s.cfg.GetAccessTokenTTL()
	token, err := s.signAccessToken(user, now, ttl)
	if err != nil {
		return nil, apperr.Internal("failed to sign token", err).WithOp(op)
	}

	s.log.AuthEvent("login", user.Email, true, "")
	s.bus.Publish(ctx, events.UserLoggedIn{UserID: user.ID, Username: user.FullName})

	return &transport.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(ttl.Seconds()),
		User:        toTransport(user),
	}, nil
}

// Logout records the logout. Access tokens are stateless, so the client
// discards its copy.
func (s *Service) Logout(ctx context.Context, actor Actor) {
	s.bus.Publish(ctx, events.UserLoggedOut{UserID: actor.ID, Username: actor.Name})
}

// Me returns the caller's own account.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*transport.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := toTransport(user)
	return &out, nil
}

// List returns all accounts.
func (s *Service) List(ctx context.Context) ([]transport.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]transport.User, 0, len(users))
	for i := range users {
		out = append(out, toTransport(&users[i]))
	}
	return out, nil
}

// Get returns one account by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*transport.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toTransport(user)
	return &out, nil
}

// Create registers a new account. The email doubles as the username.
func (s *Service) Create(ctx context.Context, actor Actor, req transport.CreateUserRequest) (*transport.User, error) {
	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user := &repository.User{
		ID:           uuid.New(),
		Username:     email,
		Email:        email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         req.Role,
		Department:   req.Department,
		Phone:        req.Phone,
		Avatar:       req.Avatar,
		IsActive:     true,
		CreatedAt:    s.now(),
	}
	if user.Avatar == "" {
		user.Avatar = initials(req.FullName)
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.UserCreated{
		UserID: user.ID, Username: user.FullName,
		ActorID: actor.ID, ActorName: actor.Name,
	})

	out := toTransport(user)
	return &out, nil
}

// Update edits account fields. An admin cannot change their own role.
func (s *Service) Update(ctx context.Context, actor Actor, id uuid.UUID, req transport.UpdateUserRequest) (*transport.User, error) {
	const op = "auth.service.Update"

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Role != nil && *req.Role != user.Role && id == actor.ID {
		return nil, apperr.Forbidden("cannot change own role").WithOp(op).WithCode("cannot_change_own_role")
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		user.Email = email
		user.Username = email
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Department != nil {
		user.Department = *req.Department
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.UserUpdated{
		UserID: user.ID, Username: user.FullName,
		ActorID: actor.ID, ActorName: actor.Name,
	})

	out := toTransport(user)
	return &out, nil
}

// SetActive enables or disables an account. Self-disabling is refused.
func (s *Service) SetActive(ctx context.Context, actor Actor, id uuid.UUID, active bool) (*transport.User, error) {
	const op = "auth.service.SetActive"

	if id == actor.ID && !active {
		return nil, apperr.Forbidden("cannot disable own account").WithOp(op).WithCode("cannot_disable_self")
	}

	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.UserUpdated{
		UserID: user.ID, Username: user.FullName,
		ActorID: actor.ID, ActorName: actor.Name,
	})

	out := toTransport(user)
	return &out, nil
}

// Delete removes an account. Self-deletion is refused.
func (s *Service) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	const op = "auth.service.Delete"

	if id == actor.ID {
		return apperr.Forbidden("cannot delete own account").WithOp(op).WithCode("cannot_delete_self")
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.bus.Publish(ctx, events.UserDeleted{
		UserID: user.ID, Username: user.FullName,
		ActorID: actor.ID, ActorName: actor.Name,
	})
	return nil
}

// ChangePassword rotates the caller's own password after verifying the
// current one.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	const op = "auth.service.ChangePassword"

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := password.Compare(user.PasswordHash, current); err != nil {
		return apperr.Unauthorized("current password is incorrect").WithOp(op).WithCode("invalid_credentials")
	}

	hash, err := password.Hash(next)
	if err != nil {
		return apperr.Internal("failed to hash password", err).WithOp(op)
	}
	return s.repo.UpdatePassword(ctx, userID, hash)
}

// ResetPassword generates a temporary password for another account and
// returns it once. Admins hand it over out of band.
func (s *Service) ResetPassword(ctx context.Context, actor Actor, id uuid.UUID) (string, error) {
	const op = "auth.service.ResetPassword"

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	temp, err := randomPassword()
	if err != nil {
		return "", apperr.Internal("failed to generate password", err).WithOp(op)
	}

	hash, err := password.Hash(temp)
	if err != nil {
		return "", apperr.Internal("failed to hash password", err).WithOp(op)
	}
	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		return "", err
	}

	s.bus.Publish(ctx, events.UserUpdated{
		UserID: user.ID, Username: user.FullName,
		ActorID: actor.ID, ActorName: actor.Name,
	})
	return temp, nil
}

// Stats aggregates a user's quoting activity. Missing providers degrade to
// zero values.
func (s *Service) Stats(ctx context.Context, id uuid.UUID) (*transport.UserStats, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	stats := &transport.UserStats{}
	if s.quoteStats != nil {
		total, thisMonth, value, err := s.quoteStats.UserQuoteStats(ctx, id)
		if err != nil {
			return nil, err
		}
		stats.TotalQuotes = total
		stats.QuotesThisMonth = thisMonth
		stats.TotalValue = value
	}
	if s.activity != nil {
		last, err := s.activity.LastActivity(ctx, id)
		if err != nil {
			return nil, err
		}
		stats.LastActivity = last
	}
	return stats, nil
}

func (s *Service) signAccessToken(user *repository.User, now time.Time, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"type":     "access",
		"role":     user.Role,
		"username": user.Username,
		"name":     user.FullName,
		"exp":      now.Add(ttl).Unix(),
		"iat":      now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

func toTransport(user *repository.User) transport.User {
	return transport.User{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FullName:    user.FullName,
		Role:        user.Role,
		Department:  user.Department,
		Phone:       user.Phone,
		Avatar:      user.Avatar,
		IsActive:    user.IsActive,
		CreatedAt:   user.CreatedAt,
		LastLoginAt: user.LastLoginAt,
	}
}

func initials(fullName string) string {
	parts := strings.Fields(fullName)
	out := ""
	for _, p := range parts {
		out += strings.ToUpper(p[:1])
		if len(out) == 2 {
			break
		}
	}
	return out
}

func randomPassword() (string, error) {
	b := make([]byte, 9)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
