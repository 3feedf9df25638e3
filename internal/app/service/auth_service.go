package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/minhtvo/storefront-gateway/internal/app/model"
	"github.com/minhtvo/storefront-gateway/internal/app/store"
	"github.com/minhtvo/storefront-gateway/internal/kv"
	"github.com/minhtvo/storefront-gateway/pkg/logger"
	"github.com/minhtvo/storefront-gateway/pkg/upstream"
	"github.com/minhtvo/storefront-gateway/pkg/util"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotSignedIn        = errors.New("no signed-in user")
)

type RegisterInput struct {
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Phone      string
	Address    string
	City       string
	Province   string
	PostalCode string
}

type AuthService interface {
	Login(ctx context.Context, sessionID, email, password string) (*model.User, error)
	Register(ctx context.Context, sessionID string, input RegisterInput) (*model.User, error)
	Logout(ctx context.Context, sessionID string) error
	UpdateProfile(ctx context.Context, sessionID string, patch model.UserPatch) (*model.User, error)
}

type authService struct {
	sessions   *store.SessionStore
	client     *upstream.Client
	accounts   kv.Store // demo-mode account records
	demoMode   bool
	adminEmail string
}

func NewAuthService(
	sessions *store.SessionStore,
	client *upstream.Client,
	accounts kv.Store,
	demoMode bool,
	adminEmail string,
) AuthService {
	return &authService{
		sessions:   sessions,
		client:     client,
		accounts:   accounts,
		demoMode:   demoMode,
		adminEmail: adminEmail,
	}
}

// demoAccount is a locally registered account used when the upstream
// customer API is not wired up
type demoAccount struct {
	Email        string     `json:"email"`
	PasswordHash string     `json:"password_hash"`
	User         model.User `json:"user"`
}

func accountKey(email string) string {
	return "account:" + strings.ToLower(email)
}

func (s *authService) Login(ctx context.Context, sessionID, email, password string) (*model.User, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"session_id": sessionID,
		"email":      email,
	})

	var user *model.User
	var err error
	if s.demoMode {
		user, err = s.demoLogin(ctx, email, password)
	} else {
		user, err = s.apiLogin(ctx, email, password)
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.sessions.SetUser(ctx, sessionID, user); err != nil {
		logger.Error("Failed to attach user to session", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}

	logger.Info("Login successful", map[string]interface{}{
		"session_id": sessionID,
		"user_id":    user.ID,
		"role":       user.Role,
	})
	return user, nil
}

func (s *authService) demoLogin(ctx context.Context, email, password string) (*model.User, error) {
	var account demoAccount
	err := s.accounts.Get(ctx, accountKey(email), &account)
	if errors.Is(err, kv.ErrNotFound) || errors.Is(err, kv.ErrCorrupt) {
		logger.Warn("Login failed: unknown account", map[string]interface{}{
			"email": email,
		})
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !util.VerifyPassword(account.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"email": email,
		})
		return nil, ErrInvalidCredentials
	}

	return &account.User, nil
}

func (s *authService) apiLogin(ctx context.Context, email, password string) (*model.User, error) {
	customer, err := s.client.LoginCustomer(ctx, upstream.LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		// Any upstream rejection surfaces as a generic credential error;
		// transport failures keep their own identity for the error parser.
		if errors.Is(err, upstream.ErrNetworkError) {
			return nil, err
		}
		logger.Warn("Login rejected by commerce API", map[string]interface{}{
			"email": email,
			"error": err.Error(),
		})
		return nil, ErrInvalidCredentials
	}
	return customerToUser(customer), nil
}

func (s *authService) Register(ctx context.Context, sessionID string, input RegisterInput) (*model.User, error) {
	logger.Info("Attempting registration", map[string]interface{}{
		"session_id": sessionID,
		"email":      input.Email,
	})

	var user *model.User
	var err error
	if s.demoMode {
		user, err = s.demoRegister(ctx, input)
	} else {
		user, err = s.apiRegister(ctx, input)
	}
	if err != nil {
		return nil, err
	}

	if _, err := s.sessions.SetUser(ctx, sessionID, user); err != nil {
		return nil, err
	}

	logger.Info("Registration successful", map[string]interface{}{
		"session_id": sessionID,
		"user_id":    user.ID,
	})
	return user, nil
}

func (s *authService) demoRegister(ctx context.Context, input RegisterInput) (*model.User, error) {
	var existing demoAccount
	err := s.accounts.Get(ctx, accountKey(input.Email), &existing)
	if err == nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": input.Email,
		})
		return nil, ErrEmailAlreadyExists
	}
	if !errors.Is(err, kv.ErrNotFound) && !errors.Is(err, kv.ErrCorrupt) {
		return nil, err
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	role := model.RoleCustomer
	if strings.EqualFold(input.Email, s.adminEmail) {
		role = model.RoleAdmin
	}

	user := model.User{
		ID:      uuid.New().String(),
		Name:    strings.TrimSpace(input.FirstName + " " + input.LastName),
		Email:   input.Email,
		Role:    role,
		Phone:   input.Phone,
		Address: input.Address,
		City:    input.City,
		State:   input.Province,
		ZipCode: input.PostalCode,
	}

	account := demoAccount{
		Email:        input.Email,
		PasswordHash: hash,
		User:         user,
	}
	// Accounts outlive sessions, no TTL
	if err := s.accounts.Set(ctx, accountKey(input.Email), account, 0); err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *authService) apiRegister(ctx context.Context, input RegisterInput) (*model.User, error) {
	resp, err := s.client.RegisterCustomer(ctx, upstream.RegisterRequest{
		Email:      input.Email,
		Password:   input.Password,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Phone:      input.Phone,
		Address:    input.Address,
		City:       input.City,
		Province:   input.Province,
		PostalCode: input.PostalCode,
	})
	if err != nil {
		return nil, err
	}

	return &model.User{
		ID:      resp.ID,
		Name:    strings.TrimSpace(input.FirstName + " " + input.LastName),
		Email:   input.Email,
		Role:    model.RoleCustomer,
		Phone:   input.Phone,
		Address: input.Address,
		City:    input.City,
		State:   input.Province,
		ZipCode: input.PostalCode,
	}, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	logger.Info("Logout", map[string]interface{}{
		"session_id": sessionID,
	})
	_, err := s.sessions.SetUser(ctx, sessionID, nil)
	return err
}

func (s *authService) UpdateProfile(ctx context.Context, sessionID string, patch model.UserPatch) (*model.User, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.SignedIn() {
		return nil, ErrNotSignedIn
	}

	user := *session.User
	patch.Apply(&user)

	if _, err := s.sessions.SetUser(ctx, sessionID, &user); err != nil {
		return nil, err
	}

	// Keep the demo account record in sync so the profile survives logout
	if s.demoMode {
		var account demoAccount
		if err := s.accounts.Get(ctx, accountKey(user.Email), &account); err == nil {
			account.User = user
			if err := s.accounts.Set(ctx, accountKey(user.Email), account, 0); err != nil {
				logger.Warn("Failed to sync demo account profile", map[string]interface{}{
					"email": user.Email,
					"error": err.Error(),
				})
			}
		}
	}

	logger.Info("Profile updated", map[string]interface{}{
		"session_id": sessionID,
		"user_id":    user.ID,
	})
	return &user, nil
}

func customerToUser(c *upstream.Customer) *model.User {
	role := model.RoleCustomer
	if c.Role == "admin" {
		role = model.RoleAdmin
	}
	return &model.User{
		ID:      c.ID,
		Name:    strings.TrimSpace(c.FirstName + " " + c.LastName),
		Email:   c.Email,
		Role:    role,
		Avatar:  c.Avatar,
		Phone:   c.Phone,
		Address: c.Address,
		City:    c.City,
		State:   c.Province,
		ZipCode: c.PostalCode,
	}
}
