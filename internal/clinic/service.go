// Package clinic is the entry point used by the transports. It authenticates
// users, checks every request against the role table, drives the scheduling
// engine and moves snapshots to and from the configured storage gateway.
package clinic

import (
	"context"
	"fmt"
	"sync"

	"github.com/adhamfakhereldeen/Cyber/internal/access"
	"github.com/adhamfakhereldeen/Cyber/internal/audit"
	"github.com/adhamfakhereldeen/Cyber/internal/backup"
	"github.com/adhamfakhereldeen/Cyber/internal/common"
	"github.com/adhamfakhereldeen/Cyber/internal/config"
	"github.com/adhamfakhereldeen/Cyber/internal/directory"
	"github.com/adhamfakhereldeen/Cyber/internal/logging"
	"github.com/adhamfakhereldeen/Cyber/internal/scheduling"
	"github.com/adhamfakhereldeen/Cyber/internal/storage"
)

// Options are the behavioural settings of a Service.
type Options struct {
	Policy               scheduling.Policy
	PasswordScheme       string
	DefaultAdminPassword string
}

// OptionsFromConfig extracts Options from cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Policy: scheduling.Policy{
			PatientConflictCheck: cfg.PatientConflictCheck,
			StrictReferences:     cfg.StrictReferences,
			AllowDelete:          cfg.AllowDelete,
		},
		PasswordScheme:       cfg.PasswordScheme,
		DefaultAdminPassword: cfg.DefaultAdminPassword,
	}
}

type Service struct {
	// mu is held shared by operations and exclusively while the whole
	// state is captured or replaced.
	mu sync.RWMutex

	dir      *directory.Directory
	engine   *scheduling.Engine
	users    *access.Service
	recorder audit.Recorder
	gateway  storage.Gateway
	exporter *backup.Exporter
	logger   logging.Logger
	opts     Options
}

// NewService wires an empty clinic. exporter may be nil.
func NewService(gateway storage.Gateway, recorder audit.Recorder, exporter *backup.Exporter, logger logging.Logger, opts Options) (*Service, error) {
	users, err := access.NewService(recorder, opts.PasswordScheme)
	if err != nil {
		return nil, err
	}
	dir := directory.New()

	return &Service{
		dir:      dir,
		engine:   scheduling.NewEngine(dir, recorder, opts.Policy),
		users:    users,
		recorder: recorder,
		gateway:  gateway,
		exporter: exporter,
		logger:   logger.With("module", "clinic"),
		opts:     opts,
	}, nil
}

// Start loads the stored state and makes sure the default admin exists,
// saving right away if it had to be created.
func (s *Service) Start(ctx context.Context) error {
	s.Load(ctx)

	created, err := s.users.EnsureDefaultAdmin(ctx, s.opts.DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("failed to create default admin: %w", err)
	}
	if created {
		s.logger.Info(ctx, "default admin account created", "username", access.DefaultAdminUsername)
		_ = s.Save(ctx)
	}
	return nil
}

// Load replaces the in-memory state with the gateway's snapshot. Read
// failures are logged; whatever could not be read starts empty.
func (s *Service) Load(ctx context.Context) {
	snap, err := s.gateway.Load(ctx)
	if err != nil {
		s.logger.Warn(ctx, "failed to load snapshot, starting with what could be read", "error", err)
	}
	if snap == nil {
		snap = storage.Empty()
	}
	snap.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.dir.Restore(snap.Patients, snap.Doctors)
	s.users.Restore(snap.Users)
	s.engine.Restore(snap.Appointments)

	s.logger.Debug(ctx, "snapshot loaded",
		"patients", len(snap.Patients),
		"doctors", len(snap.Doctors),
		"appointments", len(snap.Appointments),
		"users", len(snap.Users))
}

// Save writes the current state. A failure is logged and returned; it never
// undoes in-memory changes.
func (s *Service) Save(ctx context.Context) error {
	snap := s.Snapshot()
	if err := s.gateway.Save(ctx, snap); err != nil {
		s.logger.Warn(ctx, "failed to save snapshot", "error", err)
		return err
	}
	return nil
}

// Snapshot captures a consistent copy of the whole state.
func (s *Service) Snapshot() *storage.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &storage.Snapshot{
		Patients:     s.dir.Patients(),
		Doctors:      s.dir.Doctors(),
		Appointments: s.engine.List(),
		Users:        s.users.Users(),
	}
}

// Export uploads a snapshot to the backup bucket. Admin only.
func (s *Service) Export(ctx context.Context, u *access.User) (string, error) {
	if err := s.authorize(u, access.ActionAddUser); err != nil {
		return "", err
	}
	if !s.exporter.Enabled() {
		return "", backup.ErrDisabled
	}
	key, err := s.exporter.Export(ctx, s.Snapshot())
	if err != nil {
		s.logger.Warn(ctx, "backup export failed", "error", err)
		return "", err
	}
	s.logger.Info(ctx, "backup exported", "key", key, "actor", u.Username)
	return key, nil
}

func (s *Service) Close() error {
	return s.gateway.Close()
}

func (s *Service) Policy() scheduling.Policy {
	return s.engine.Policy()
}

// Login verifies credentials. Wrong credentials return
// common.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (*access.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users.Verify(ctx, username, password)
}

// Lookup returns the current record of username, e.g. to resolve a token.
func (s *Service) Lookup(username string) (*access.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users.Lookup(username)
}

func (s *Service) authorize(u *access.User, action access.Action) error {
	if u == nil {
		return fmt.Errorf("%s requires a logged in user: %w", action, common.ErrorUnauthorized)
	}
	if !s.users.Can(u, action) {
		return fmt.Errorf("role %s may not %s: %w", u.Role, action, common.ErrorUnauthorized)
	}
	return nil
}
