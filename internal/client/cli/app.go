package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/adhamfakhereldeen/Cyber/internal/access"
	"github.com/adhamfakhereldeen/Cyber/internal/audit"
	"github.com/adhamfakhereldeen/Cyber/internal/backup"
	"github.com/adhamfakhereldeen/Cyber/internal/clinic"
	"github.com/adhamfakhereldeen/Cyber/internal/common"
	"github.com/adhamfakhereldeen/Cyber/internal/config"
	"github.com/adhamfakhereldeen/Cyber/internal/logging"
	"github.com/adhamfakhereldeen/Cyber/internal/storage/backend"
)

type App struct {
	clinic *clinic.Service
	logger logging.Logger
	user   *access.User
	reader *bufio.Reader
	out    io.Writer

	// interactive selects echo-less password input.
	interactive bool
}

// NewApp opens the configured backend and loads the clinic state.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stderr, c.LogLevel)

	gw, err := backend.Open(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	recorder := audit.NewFileRecorder(c.AuditLogPath, logger)
	exporter := backup.NewExporter(backup.Options{
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		BaseEndpoint: c.S3BaseEndpoint,
	})

	svc, err := clinic.NewService(gw, recorder, exporter, logger, clinic.OptionsFromConfig(c))
	if err != nil {
		_ = gw.Close()
		return nil, err
	}
	if err := svc.Start(ctx); err != nil {
		_ = gw.Close()
		return nil, err
	}

	app := newApp(svc, logger, os.Stdin, os.Stdout)
	app.interactive = stdinIsTerminal()
	return app, nil
}

func newApp(svc *clinic.Service, logger logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		clinic: svc,
		logger: logger,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Run starts the console and saves the state when it ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to the clinic console (type 'help' for commands)")
	a.runREPL(ctx)

	if err := a.clinic.Save(ctx); err != nil {
		fmt.Fprintln(a.out, "Warning: state not saved:", err)
	}
	if err := a.clinic.Close(); err != nil {
		a.logger.Warn(ctx, "failed to close storage", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

func (a *App) getStatus() string {
	if a.user == nil {
		return ""
	}
	return fmt.Sprintf("(%s %s)", a.user.Username, a.user.Role)
}

func (a *App) ask(prompt string) (string, error) {
	return GetSimpleText(a.reader, prompt, a.out)
}

// askPassword reads without echo on a terminal, as a plain line otherwise.
func (a *App) askPassword() (string, error) {
	if !a.interactive {
		return a.ask("Enter password")
	}
	pw, err := GetPassword(a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
