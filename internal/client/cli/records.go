package cli

import (
	"context"
	"fmt"

	"github.com/adhamfakhereldeen/Cyber/internal/directory"
)

func (a *App) Patients(_ context.Context, _ []string) error {
	list, err := a.clinic.Patients(a.user)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.println("No patients")
		return nil
	}
	for _, p := range list {
		a.println(p.Display())
	}
	return nil
}

func (a *App) Doctors(_ context.Context, _ []string) error {
	list, err := a.clinic.Doctors(a.user)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.println("No doctors")
		return nil
	}
	for _, d := range list {
		line := d.Display()
		if d.Specialty != "" {
			line += ", " + d.Specialty
		}
		if d.OfficeHours != "" {
			line += " [" + d.OfficeHours + "]"
		}
		a.println(line)
	}
	return nil
}

func (a *App) AddPatient(ctx context.Context, _ []string) error {
	var p directory.Patient
	if err := a.fill(
		field{"Patient id", &p.ID},
		field{"Name", &p.Name},
		field{"Phone", &p.Phone},
		field{"Notes", &p.Notes},
	); err != nil {
		return err
	}

	if err := a.clinic.AddPatient(ctx, a.user, p); err != nil {
		return err
	}
	a.println("Added patient", p.Display())
	return nil
}

func (a *App) AddDoctor(ctx context.Context, _ []string) error {
	var d directory.Doctor
	if err := a.fill(
		field{"Doctor id", &d.ID},
		field{"Name", &d.Name},
		field{"Phone", &d.Phone},
		field{"Specialty", &d.Specialty},
		field{"Office hours", &d.OfficeHours},
	); err != nil {
		return err
	}

	if err := a.clinic.AddDoctor(ctx, a.user, d); err != nil {
		return err
	}
	a.println("Added doctor", d.Display())
	return nil
}

// History prints the visit summaries of a patient, oldest first.
func (a *App) History(_ context.Context, args []string) error {
	id, err := a.argOrAsk(args, "Patient id")
	if err != nil {
		return err
	}
	visits, err := a.clinic.History(a.user, id)
	if err != nil {
		return err
	}
	if len(visits) == 0 {
		a.println("No visits")
		return nil
	}
	for i, v := range visits {
		a.println(fmt.Sprintf("%d. %s", i+1, v))
	}
	return nil
}

type field struct {
	prompt string
	dst    *string
}

func (a *App) fill(fields ...field) error {
	for _, f := range fields {
		v, err := a.ask(f.prompt)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	return nil
}

func (a *App) argOrAsk(args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return a.ask(prompt)
}
