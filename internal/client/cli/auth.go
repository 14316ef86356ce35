package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/adhamfakhereldeen/Cyber/internal/access"
)

// Login prompts for credentials and replaces the current session on
// success.
func (a *App) Login(ctx context.Context) error {
	username, err := a.ask("Enter username")
	if err != nil {
		return err
	}
	password, err := a.askPassword()
	if err != nil {
		return err
	}

	u, err := a.clinic.Login(ctx, username, password)
	if err != nil {
		return err
	}
	a.user = u
	a.println("Logged in as", u.Username, "("+string(u.Role)+")")
	return nil
}

func (a *App) Logout(_ context.Context, _ []string) error {
	a.user = nil
	a.println("Logged out")
	return nil
}

func (a *App) WhoAmI(_ context.Context, _ []string) error {
	perms := access.Permissions(a.user.Role)
	names := make([]string, len(perms))
	for i, p := range perms {
		names[i] = string(p)
	}
	a.println(fmt.Sprintf("%s (%s): %s", a.user.Username, a.user.Role, strings.Join(names, ", ")))
	return nil
}

func (a *App) AddUser(ctx context.Context, _ []string) error {
	username, err := a.ask("Username")
	if err != nil {
		return err
	}
	role, err := a.ask("Role (admin, doctor, clerk)")
	if err != nil {
		return err
	}
	password, err := a.askPassword()
	if err != nil {
		return err
	}

	u, err := a.clinic.AddUser(ctx, a.user, username, access.Role(role), password)
	if err != nil {
		return err
	}
	a.println("Added user", u.Username, "("+string(u.Role)+")")
	return nil
}

// Passwd resets the password of the named user, or prompts for one.
func (a *App) Passwd(ctx context.Context, args []string) error {
	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		var err error
		if username, err = a.ask("Username"); err != nil {
			return err
		}
	}
	password, err := a.askPassword()
	if err != nil {
		return err
	}

	if err := a.clinic.ResetPassword(ctx, a.user, username, password); err != nil {
		return err
	}
	a.println("Password updated for", username)
	return nil
}
