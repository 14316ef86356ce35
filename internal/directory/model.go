package directory

import "slices"

// Patient is a clinic patient. Visits only ever grow.
type Patient struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Phone  string   `json:"phone"`
	Visits []string `json:"visits"`
	Notes  string   `json:"notes"`
}

// Doctor is a clinic doctor. Schedule holds one slot marker (canonical
// datetime) per scheduled appointment.
type Doctor struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Phone       string   `json:"phone"`
	Specialty   string   `json:"specialty"`
	OfficeHours string   `json:"office_hours"`
	Schedule    []string `json:"schedule"`
}

// Display renders the person the way listings show it.
func (p Patient) Display() string {
	return p.Name + " (" + p.ID + ") - " + p.Phone
}

func (d Doctor) Display() string {
	return d.Name + " (" + d.ID + ") - " + d.Phone
}

// IsAvailable reports whether datetime is free in d's schedule.
func (d Doctor) IsAvailable(datetime string) bool {
	return !slices.Contains(d.Schedule, datetime)
}

func (p Patient) clone() Patient {
	p.Visits = slices.Clone(p.Visits)
	if p.Visits == nil {
		p.Visits = []string{}
	}
	return p
}

func (d Doctor) clone() Doctor {
	d.Schedule = slices.Clone(d.Schedule)
	if d.Schedule == nil {
		d.Schedule = []string{}
	}
	return d
}
