package clinic

import (
	"context"

	"github.com/adhamfakhereldeen/Cyber/internal/access"
)

func (s *Service) AddUser(ctx context.Context, u *access.User, username string, role access.Role, password string) (*access.User, error) {
	if err := s.authorize(u, access.ActionAddUser); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users.AddUser(ctx, username, role, password, u.Username)
}

// ResetPassword sets a new password for username. Unknown usernames are
// ignored.
func (s *Service) ResetPassword(ctx context.Context, u *access.User, username, password string) error {
	if err := s.authorize(u, access.ActionResetPassword); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users.ResetPassword(ctx, username, password, u.Username)
}

// Users lists accounts. Password material is stripped.
func (s *Service) Users(u *access.User) ([]access.User, error) {
	if err := s.authorize(u, access.ActionAddUser); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := s.users.Users()
	for i := range users {
		users[i].PasswordHash = ""
		users[i].Salt = ""
	}
	return users, nil
}
