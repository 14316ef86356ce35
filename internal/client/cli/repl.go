package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	helpLoggedOut = "Available commands: help, login, exit"
	helpLoggedIn  = "Available commands: help, whoami, logout, patients, doctors, appointments, " +
		"addpatient, adddoctor, schedule, cancel, complete, reschedule, delete, history, " +
		"adduser, passwd, save, backup, exit"
)

// runREPL reads commands until EOF or "exit"/"quit". Command errors are
// printed and the loop goes on.
func (a *App) runREPL(ctx context.Context) {
	for {
		fmt.Fprintf(a.out, "clinic %s> ", a.getStatus())
		line, err := a.reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			a.println()
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			a.println("Bye!")
			return
		}

		if err := a.dispatch(ctx, cmd, args); err != nil {
			a.println("Error:", err)
		}
	}
}

var errLoginRequired = errors.New("please log in first")

func (a *App) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			a.println(helpLoggedIn)
		} else {
			a.println(helpLoggedOut)
		}
		return nil
	case "login":
		return a.Login(ctx)
	}

	if !a.isLoggedIn() {
		if _, known := commands[cmd]; known {
			return errLoginRequired
		}
		a.println("Unknown command:", cmd)
		return nil
	}

	run, ok := commands[cmd]
	if !ok {
		a.println("Unknown command:", cmd)
		return nil
	}
	return run(a, ctx, args)
}

var commands = map[string]func(*App, context.Context, []string) error{
	"logout":       (*App).Logout,
	"whoami":       (*App).WhoAmI,
	"patients":     (*App).Patients,
	"doctors":      (*App).Doctors,
	"appointments": (*App).Appointments,
	"addpatient":   (*App).AddPatient,
	"adddoctor":    (*App).AddDoctor,
	"schedule":     (*App).Schedule,
	"cancel":       (*App).Cancel,
	"complete":     (*App).Complete,
	"reschedule":   (*App).Reschedule,
	"delete":       (*App).Delete,
	"history":      (*App).History,
	"adduser":      (*App).AddUser,
	"passwd":       (*App).Passwd,
	"save":         (*App).Save,
	"backup":       (*App).Backup,
}
