// Package access owns user accounts, password verification and the static
// role to permission table.
package access

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/adhamfakhereldeen/Cyber/internal/audit"
	"github.com/adhamfakhereldeen/Cyber/internal/common"
	"github.com/adhamfakhereldeen/Cyber/internal/cryptox"
)

// DefaultAdminUsername is the account created by EnsureDefaultAdmin.
const DefaultAdminUsername = "admin"

type Service struct {
	mu       sync.RWMutex
	users    map[string]*User
	recorder audit.Recorder
	scheme   string
}

// NewService returns an empty user store. scheme is the password scheme
// for newly created users.
func NewService(recorder audit.Recorder, scheme string) (*Service, error) {
	scheme = cryptox.NormalizeScheme(scheme)
	if !cryptox.ValidScheme(scheme) {
		return nil, fmt.Errorf("%w: unknown password scheme %q", common.ErrInvalidArgument, scheme)
	}
	return &Service{
		users:    make(map[string]*User),
		recorder: recorder,
		scheme:   scheme,
	}, nil
}

// Verify checks credentials. Bad credentials are an expected outcome and
// return common.ErrInvalidCredentials; both outcomes are audited.
func (s *Service) Verify(ctx context.Context, username, password string) (*User, error) {
	s.mu.RLock()
	u, ok := s.users[username]
	var snapshot User
	if ok {
		snapshot = *u
	}
	s.mu.RUnlock()

	if !ok {
		// burn a hash anyway so unknown users cost the same
		cryptox.VerifyPassword(s.scheme, "", password, "")
		s.recorder.Record(ctx, audit.EventLoginFailure, username, "Invalid credentials")
		return nil, common.ErrInvalidCredentials
	}

	if !cryptox.VerifyPassword(snapshot.Scheme, snapshot.Salt, password, snapshot.PasswordHash) {
		s.recorder.Record(ctx, audit.EventLoginFailure, username, "Invalid credentials")
		return nil, common.ErrInvalidCredentials
	}

	s.recorder.Record(ctx, audit.EventLoginSuccess, username, "User logged in")
	return &snapshot, nil
}

// Can reports whether u may perform action.
func (s *Service) Can(u *User, action Action) bool {
	return u.Can(action)
}

func (s *Service) AddUser(ctx context.Context, username string, role Role, password, actor string) (*User, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: empty username", common.ErrInvalidArgument)
	}
	if !KnownRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrInvalidArgument, role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[username]; ok {
		return nil, fmt.Errorf("user %q: %w", username, common.ErrAlreadyExists)
	}

	salt, err := s.uniqueSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	hash, err := cryptox.HashPassword(s.scheme, salt, password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Username:     username,
		Role:         role,
		PasswordHash: hash,
		Salt:         salt,
		Scheme:       s.scheme,
	}
	s.users[username] = u

	s.recorder.Record(ctx, audit.EventAddUser, actor, "Added user "+username)

	out := *u
	return &out, nil
}

// uniqueSalt must be called with s.mu held.
func (s *Service) uniqueSalt() (string, error) {
	for {
		salt, err := cryptox.NewSalt()
		if err != nil {
			return "", err
		}
		taken := false
		for _, u := range s.users {
			if u.Salt == salt {
				taken = true
				break
			}
		}
		if !taken {
			return salt, nil
		}
	}
}

// ResetPassword rehashes with the user's existing salt and scheme. Unknown
// usernames are a silent no-op.
func (s *Service) ResetPassword(ctx context.Context, username, newPassword, actor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[username]
	if !ok {
		return nil
	}

	hash, err := cryptox.HashPassword(u.Scheme, u.Salt, newPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash

	s.recorder.Record(ctx, audit.EventResetPassword, actor, "Reset password for "+username)
	return nil
}

// EnsureDefaultAdmin creates admin/<password> through AddUser when no user
// named admin exists. It reports whether the account was created.
func (s *Service) EnsureDefaultAdmin(ctx context.Context, password string) (bool, error) {
	if _, err := s.Lookup(DefaultAdminUsername); err == nil {
		return false, nil
	}
	_, err := s.AddUser(ctx, DefaultAdminUsername, RoleAdmin, password, common.SystemActor)
	if errors.Is(err, common.ErrAlreadyExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) Lookup(username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", username, common.ErrorNotFound)
	}
	out := *u
	return &out, nil
}

// Users returns every account sorted by username.
func (s *Service) Users() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

// Restore replaces all accounts, e.g. after loading a snapshot. Nothing is
// audited.
func (s *Service) Restore(users []User) {
	m := make(map[string]*User, len(users))
	for _, u := range users {
		u := u
		m[u.Username] = &u
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = m
}
