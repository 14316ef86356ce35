package cli

import (
	"context"
	"fmt"

	"github.com/adhamfakhereldeen/Cyber/internal/common"
	"github.com/adhamfakhereldeen/Cyber/internal/scheduling"
	"github.com/google/uuid"
)

var newAppointmentID = uuid.NewString

// Appointments lists appointments. Usage: appointments [doctor <id>] [patient <id>].
func (a *App) Appointments(_ context.Context, args []string) error {
	var doctorID, patientID string
	for i := 0; i+1 < len(args); i += 2 {
		switch args[i] {
		case "doctor":
			doctorID = args[i+1]
		case "patient":
			patientID = args[i+1]
		default:
			return fmt.Errorf("%w: unknown filter %q", common.ErrInvalidArgument, args[i])
		}
	}
	if len(args)%2 != 0 {
		return fmt.Errorf("%w: usage: appointments [doctor <id>] [patient <id>]", common.ErrInvalidArgument)
	}

	list, err := a.clinic.Appointments(a.user, doctorID, patientID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.println("No appointments")
		return nil
	}
	for _, appt := range list {
		a.printAppointment(&appt)
	}
	return nil
}

// Schedule prompts for the booking. A blank id gets a generated one.
func (a *App) Schedule(ctx context.Context, _ []string) error {
	var id, patientID, doctorID, datetime string
	if err := a.fill(
		field{"Appointment id (blank to generate)", &id},
		field{"Patient id", &patientID},
		field{"Doctor id", &doctorID},
		field{"Date and time (" + common.DatetimeLayout + ")", &datetime},
	); err != nil {
		return err
	}
	if id == "" {
		id = newAppointmentID()
	}

	appt, err := a.clinic.Schedule(ctx, a.user, id, patientID, doctorID, datetime)
	if err != nil {
		return err
	}
	a.printResult("Scheduled", appt)
	return nil
}

func (a *App) Cancel(ctx context.Context, args []string) error {
	id, err := a.argOrAsk(args, "Appointment id")
	if err != nil {
		return err
	}
	appt, err := a.clinic.Cancel(ctx, a.user, id)
	if err != nil {
		return err
	}
	a.printResult("Cancelled", appt)
	return nil
}

func (a *App) Complete(ctx context.Context, args []string) error {
	id, err := a.argOrAsk(args, "Appointment id")
	if err != nil {
		return err
	}
	summary, err := a.ask("Visit summary")
	if err != nil {
		return err
	}
	appt, err := a.clinic.Complete(ctx, a.user, id, summary)
	if err != nil {
		return err
	}
	a.printResult("Completed", appt)
	return nil
}

func (a *App) Reschedule(ctx context.Context, args []string) error {
	id, err := a.argOrAsk(args, "Appointment id")
	if err != nil {
		return err
	}
	datetime, err := a.ask("New date and time (" + common.DatetimeLayout + ")")
	if err != nil {
		return err
	}
	appt, err := a.clinic.Reschedule(ctx, a.user, id, datetime)
	if err != nil {
		return err
	}
	a.printResult("Rescheduled", appt)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.argOrAsk(args, "Appointment id")
	if err != nil {
		return err
	}
	if err := a.clinic.Delete(ctx, a.user, id); err != nil {
		return err
	}
	a.println("Deleted appointment", id)
	return nil
}

func (a *App) printResult(verb string, appt *scheduling.Appointment) {
	a.println(verb + ":")
	a.printAppointment(appt)
}

func (a *App) printAppointment(appt *scheduling.Appointment) {
	line := fmt.Sprintf("%s  %s  patient=%s doctor=%s  %s", appt.ID, appt.Datetime, appt.PatientID, appt.DoctorID, appt.Status)
	if appt.Summary != "" {
		line += "  " + appt.Summary
	}
	a.println(line)
}
