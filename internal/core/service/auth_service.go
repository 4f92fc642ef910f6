package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bazaar/marketplace-api/internal/core/domain"
	"github.com/bazaar/marketplace-api/internal/core/ports"
	"github.com/bazaar/marketplace-api/internal/pkg/metrics"
)

// AuthDeps groups the collaborators of AuthService. Locker and Notifier are optional.
type AuthDeps struct {
	Users            ports.UserRepository
	Tokens           ports.TokenIssuer
	Credentials      ports.CredentialVerifier
	Hasher           ports.PasswordHasher
	Locker           ports.KeyLocker
	Notifier         ports.Notifier
	Logger           zerolog.Logger
	AllowAdminSignup bool
}

// AuthService implements registration, login and profile lookup.
type AuthService struct {
	users            ports.UserRepository
	tokens           ports.TokenIssuer
	creds            ports.CredentialVerifier
	hasher           ports.PasswordHasher
	locker           ports.KeyLocker
	notifier         ports.Notifier
	log              zerolog.Logger
	allowAdminSignup bool
}

func NewAuthService(d AuthDeps) *AuthService {
	creds := d.Credentials
	if creds == nil {
		creds = HashedCredentials{}
	}
	return &AuthService{
		users:            d.Users,
		tokens:           d.Tokens,
		creds:            creds,
		hasher:           d.Hasher,
		locker:           d.Locker,
		notifier:         d.Notifier,
		log:              d.Logger,
		allowAdminSignup: d.AllowAdminSignup,
	}
}

// Register validates the input, provisions the account and returns it with a
// fresh token. A failed registration leaves no account behind.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	if blank(in.Name) || blank(in.Email) || blank(in.Password) || blank(in.Role) {
		return nil, domain.ErrMissingFields
	}
	if !domain.ValidRole(in.Role) {
		return nil, domain.ErrInvalidRole
	}
	if in.Role == domain.RoleAdmin && !s.allowAdminSignup {
		s.log.Warn().Str("email", in.Email).Msg("admin self-registration rejected")
		return nil, domain.ErrInvalidRole
	}

	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, "register:"+in.Email)
		if err != nil {
			return nil, fmt.Errorf("register: lock email: %w", err)
		}
		defer unlock()
	}

	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: lookup email: %w", err)
	}

	if in.Role == domain.RoleVendor && blank(in.StoreName) {
		return nil, domain.ErrMissingStoreName
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		Name:         in.Name,
		Role:         in.Role,
		PasswordHash: hash,
	}
	if in.Role == domain.RoleVendor {
		user.VendorProfile = domain.NewVendorProfile(in.StoreName, in.StoreDescription)
	}

	// The token is minted before the insert so that a signing failure cannot
	// leave an account without credentials.
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("register: create user: %w", err)
	}

	metrics.RegistrationsTotal.WithLabelValues(created.Role).Inc()
	s.log.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user registered")

	if created.IsVendor() {
		s.notifyAdmins(ctx, created)
	}

	return &ports.AuthResult{User: created, Token: token}, nil
}

// Login checks the credentials and, for vendors, the approval flag.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if blank(email) || blank(password) {
		return nil, domain.ErrMissingFields
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("unknown_user").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.creds.Verify(user, password) {
		metrics.LoginsTotal.WithLabelValues("bad_password").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if !user.Approved() {
		metrics.LoginsTotal.WithLabelValues("pending_approval").Inc()
		return nil, domain.ErrPendingApproval
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Debug().Str("user_id", user.ID).Msg("login succeeded")

	return &ports.AuthResult{User: user, Token: token}, nil
}

// Profile returns the current state of the caller's account.
func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("profile: %w", err)
	}
	return user, nil
}

func (s *AuthService) notifyAdmins(ctx context.Context, vendor *domain.User) {
	if s.notifier == nil {
		return
	}
	admins, err := s.users.FindByRole(ctx, domain.RoleAdmin)
	if err != nil {
		s.log.Warn().Err(err).Str("vendor_id", vendor.ID).Msg("could not load admins for vendor notification")
		return
	}
	for _, admin := range admins {
		s.notifier.Enqueue(ports.NotificationInput{
			UserID:  admin.ID,
			Type:    domain.NotificationSystem,
			Title:   "New vendor awaiting approval",
			Message: fmt.Sprintf("%s registered the store %q and is waiting for approval.", vendor.Name, vendor.StoreName),
		})
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
