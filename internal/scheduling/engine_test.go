package scheduling

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/adhamfakhereldeen/Cyber/internal/audit"
	"github.com/adhamfakhereldeen/Cyber/internal/common"
	"github.com/adhamfakhereldeen/Cyber/internal/directory"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	t10 = "2026-01-14 10:00"
	t11 = "2026-01-14 11:00"
)

type fixture struct {
	dir *directory.Directory
	rec *audit.Memory
	eng *Engine
}

func newFixture(t *testing.T, policy Policy) *fixture {
	t.Helper()
	dir := directory.New()
	require.NoError(t, dir.AddPatient(directory.Patient{ID: "p1", Name: "Ann"}))
	require.NoError(t, dir.AddPatient(directory.Patient{ID: "p2", Name: "Ben"}))
	require.NoError(t, dir.AddDoctor(directory.Doctor{ID: "d1", Name: "Dr. One"}))
	require.NoError(t, dir.AddDoctor(directory.Doctor{ID: "d2", Name: "Dr. Two"}))
	rec := audit.NewMemory()
	return &fixture{dir: dir, rec: rec, eng: NewEngine(dir, rec, policy)}
}

func (f *fixture) available(t *testing.T, doctorID, dt string) bool {
	t.Helper()
	ok, err := f.dir.IsAvailable(doctorID, dt)
	require.NoError(t, err)
	return ok
}

func (f *fixture) schedule(t *testing.T, id, patientID, doctorID, dt string) *Appointment {
	t.Helper()
	a, err := f.eng.Schedule(context.Background(), id, patientID, doctorID, dt, "clerk")
	require.NoError(t, err)
	return a
}

// slotsConsistent checks that each doctor's markers equal the datetimes of
// its scheduled appointments, one marker per distinct datetime.
func (f *fixture) slotsConsistent(t *testing.T) {
	t.Helper()
	want := map[string][]string{}
	for _, a := range f.eng.List() {
		if a.Status == StatusScheduled && !slices.Contains(want[a.DoctorID], a.Datetime) {
			want[a.DoctorID] = append(want[a.DoctorID], a.Datetime)
		}
	}
	for _, d := range f.dir.Doctors() {
		assert.ElementsMatch(t, want[d.ID], d.Schedule, "doctor %s", d.ID)
	}
}

func TestSchedule_Success(t *testing.T) {
	f := newFixture(t, DefaultPolicy())

	a := f.schedule(t, "a1", "p1", "d1", t10)

	assert.Equal(t, &Appointment{ID: "a1", PatientID: "p1", DoctorID: "d1", Datetime: t10, Status: StatusScheduled}, a)
	assert.False(t, f.available(t, "d1", t10))
	assert.True(t, f.available(t, "d2", t10))

	entries := f.rec.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, audit.EventSchedule, entries[0].Event)
	assert.Equal(t, "clerk", entries[0].Actor)
	assert.Equal(t, "Scheduled appt a1 for patient p1 with doctor d1", entries[0].Details)
	f.slotsConsistent(t)
}

func TestSchedule_Errors(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	f.schedule(t, "a1", "p1", "d1", t10)
	ctx := context.Background()

	tests := []struct {
		name string
		id   string
		pid  string
		did  string
		dt   string
		want error
	}{
		{"empty id", "", "p1", "d1", t11, common.ErrInvalidArgument},
		{"bad datetime", "x", "p1", "d1", "14/01/2026 10:00", common.ErrInvalidArgument},
		{"unpadded datetime", "x", "p1", "d1", "2026-01-14 9:00", common.ErrInvalidArgument},
		{"duplicate id", "a1", "p2", "d2", t11, common.ErrAlreadyExists},
		{"unknown patient", "x", "ghost", "d1", t11, common.ErrorNotFound},
		{"unknown doctor", "x", "p1", "ghost", t11, common.ErrorNotFound},
		{"doctor slot taken", "x", "p2", "d1", t10, common.ErrConflict},
		{"patient busy", "x", "p1", "d2", t10, common.ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := f.eng.Schedule(ctx, tt.id, tt.pid, tt.did, tt.dt, "clerk")
			assert.Nil(t, a)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	assert.Len(t, f.eng.List(), 1)
	assert.Equal(t, 1, f.rec.Count(audit.EventSchedule), "failures are not audited")

	d1, err := f.dir.FindDoctor("d1")
	require.NoError(t, err)
	assert.Equal(t, []string{t10}, d1.Schedule, "exactly one marker for the slot")
	f.slotsConsistent(t)
}

func TestSchedule_DoctorConflictReportedBeforePatient(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	f.schedule(t, "a1", "p1", "d1", t10)

	// same patient and same doctor: both rules fire, the doctor one wins
	_, err := f.eng.Schedule(context.Background(), "a2", "p1", "d1", t10, "clerk")
	require.True(t, errors.Is(err, common.ErrConflict))
	assert.Contains(t, err.Error(), "doctor d1")
}

func TestSchedule_PatientConflictPolicyOff(t *testing.T) {
	f := newFixture(t, Policy{PatientConflictCheck: false})
	f.schedule(t, "a1", "p1", "d1", t10)

	a, err := f.eng.Schedule(context.Background(), "a2", "p1", "d2", t10, "clerk")
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, a.Status)
}

func TestSchedule_PatientConflictIgnoresClosedAppointments(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	f.schedule(t, "a1", "p1", "d1", t10)
	_, err := f.eng.Cancel(context.Background(), "a1", "clerk")
	require.NoError(t, err)

	f.schedule(t, "a2", "p1", "d2", t10)
}

func TestEndToEnd_CancelFreesSlot(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()

	f.schedule(t, "a1", "p1", "d1", t10)

	_, err := f.eng.Schedule(ctx, "a2", "p1", "d1", t10, "clerk")
	require.True(t, errors.Is(err, common.ErrConflict))

	a, err := f.eng.Cancel(ctx, "a1", "clerk")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, a.Status)
	assert.True(t, f.available(t, "d1", t10))

	f.schedule(t, "a3", "p1", "d1", t10)
	assert.False(t, f.available(t, "d1", t10))

	assert.Equal(t, []string{"schedule", "cancel", "schedule"}, f.rec.Events())
	f.slotsConsistent(t)
}

func TestCancel_Errors(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()
	f.schedule(t, "a1", "p1", "d1", t10)
	f.schedule(t, "a2", "p2", "d1", t11)
	_, err := f.eng.Cancel(ctx, "a1", "clerk")
	require.NoError(t, err)
	_, err = f.eng.Complete(ctx, "a2", "ok", "doc")
	require.NoError(t, err)
	f.rec.Reset()

	_, err = f.eng.Cancel(ctx, "ghost", "clerk")
	assert.True(t, errors.Is(err, common.ErrorNotFound))

	_, err = f.eng.Cancel(ctx, "a1", "clerk")
	assert.True(t, errors.Is(err, common.ErrInvalidTransition))

	_, err = f.eng.Cancel(ctx, "a2", "clerk")
	assert.True(t, errors.Is(err, common.ErrInvalidTransition))

	assert.Empty(t, f.rec.Entries())
}

func TestComplete_AppendsVisitAndFreesSlot(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()
	require.NoError(t, f.dir.AddVisit("p1", "earlier visit"))
	f.schedule(t, "a1", "p1", "d1", t10)

	a, err := f.eng.Complete(ctx, "a1", "flu shot", "doc")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, a.Status)
	assert.Equal(t, "flu shot", a.Summary)

	h, err := f.dir.History("p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"earlier visit", "flu shot"}, h)
	assert.True(t, f.available(t, "d1", t10))

	_, err = f.eng.Complete(ctx, "a1", "again", "doc")
	assert.True(t, errors.Is(err, common.ErrInvalidTransition))
	_, err = f.eng.Complete(ctx, "ghost", "x", "doc")
	assert.True(t, errors.Is(err, common.ErrorNotFound))

	h, _ = f.dir.History("p1")
	assert.Len(t, h, 2, "failed completes add nothing")
	assert.Equal(t, 1, f.rec.Count(audit.EventComplete))
	f.slotsConsistent(t)
}

func TestComplete_CancelledIsTerminal(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()
	f.schedule(t, "a1", "p1", "d1", t10)
	_, err := f.eng.Cancel(ctx, "a1", "clerk")
	require.NoError(t, err)

	_, err = f.eng.Complete(ctx, "a1", "x", "doc")
	assert.True(t, errors.Is(err, common.ErrInvalidTransition))

	_, err = f.eng.Reschedule(ctx, "a1", t11, "doc")
	assert.True(t, errors.Is(err, common.ErrInvalidTransition))
}

func TestReschedule_MovesSlot(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()
	f.schedule(t, "a1", "p1", "d1", t10)

	a, err := f.eng.Reschedule(ctx, "a1", t11, "clerk")
	require.NoError(t, err)
	assert.Equal(t, t11, a.Datetime)
	assert.Equal(t, StatusScheduled, a.Status)

	assert.True(t, f.available(t, "d1", t10))
	assert.False(t, f.available(t, "d1", t11))

	entries := f.rec.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, audit.EventReschedule, entries[1].Event)
	assert.Equal(t, t10+" -> "+t11, entries[1].Details)
	f.slotsConsistent(t)
}

func TestReschedule_ToTakenSlotLeavesBothUnchanged(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()
	f.schedule(t, "a1", "p1", "d1", t10)
	f.schedule(t, "a2", "p2", "d1", t11)

	_, err := f.eng.Reschedule(ctx, "a1", t11, "clerk")
	require.True(t, errors.Is(err, common.ErrConflict))

	a1, _ := f.eng.Find("a1")
	a2, _ := f.eng.Find("a2")
	assert.Equal(t, t10, a1.Datetime)
	assert.Equal(t, t11, a2.Datetime)
	assert.Equal(t, 0, f.rec.Count(audit.EventReschedule))
	f.slotsConsistent(t)
}

func TestReschedule_PatientBusyElsewhere(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()
	f.schedule(t, "a1", "p1", "d1", t10)
	f.schedule(t, "a2", "p1", "d2", t11)

	_, err := f.eng.Reschedule(ctx, "a1", t11, "clerk")
	require.True(t, errors.Is(err, common.ErrConflict))
	assert.Contains(t, err.Error(), "patient p1")

	off := newFixture(t, Policy{})
	off.schedule(t, "a1", "p1", "d1", t10)
	off.schedule(t, "a2", "p1", "d2", t11)
	_, err = off.eng.Reschedule(ctx, "a1", t11, "clerk")
	require.NoError(t, err)
	off.slotsConsistent(t)
}

func TestReschedule_SameDatetimeIsNoop(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	before := f.schedule(t, "a1", "p1", "d1", t10)
	f.rec.Reset()

	after, err := f.eng.Reschedule(context.Background(), "a1", t10, "clerk")
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(before, after))
	assert.Empty(t, f.rec.Entries())
	assert.False(t, f.available(t, "d1", t10))
}

func TestReschedule_Errors(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()

	_, err := f.eng.Reschedule(ctx, "ghost", t11, "clerk")
	assert.True(t, errors.Is(err, common.ErrorNotFound))

	_, err = f.eng.Reschedule(ctx, "ghost", "tomorrow", "clerk")
	assert.True(t, errors.Is(err, common.ErrInvalidArgument))

	// appointment whose doctor record is gone
	f.eng.Restore([]Appointment{{ID: "a9", PatientID: "p1", DoctorID: "gone", Datetime: t10, Status: StatusScheduled}})
	_, err = f.eng.Reschedule(ctx, "a9", t11, "clerk")
	assert.True(t, errors.Is(err, common.ErrorNotFound))
	_, err = f.eng.Reschedule(ctx, "a9", t10, "clerk")
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestStrictReferences(t *testing.T) {
	dangling := []Appointment{
		{ID: "a1", PatientID: "gone", DoctorID: "d1", Datetime: t10, Status: StatusScheduled},
		{ID: "a2", PatientID: "p1", DoctorID: "gone", Datetime: t11, Status: StatusScheduled},
	}
	ctx := context.Background()

	t.Run("tolerant", func(t *testing.T) {
		f := newFixture(t, Policy{})
		f.eng.Restore(dangling)

		a, err := f.eng.Complete(ctx, "a1", "done", "doc")
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, a.Status)
		assert.True(t, f.available(t, "d1", t10))

		_, err = f.eng.Cancel(ctx, "a2", "clerk")
		require.NoError(t, err)
	})

	t.Run("strict", func(t *testing.T) {
		f := newFixture(t, Policy{StrictReferences: true})
		f.eng.Restore(dangling)

		_, err := f.eng.Complete(ctx, "a1", "done", "doc")
		assert.True(t, errors.Is(err, common.ErrorNotFound))
		_, err = f.eng.Cancel(ctx, "a1", "clerk")
		assert.True(t, errors.Is(err, common.ErrorNotFound))
		_, err = f.eng.Cancel(ctx, "a2", "clerk")
		assert.True(t, errors.Is(err, common.ErrorNotFound))

		a, _ := f.eng.Find("a1")
		assert.Equal(t, StatusScheduled, a.Status)
		assert.Empty(t, f.rec.Entries())
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	disabled := newFixture(t, DefaultPolicy())
	disabled.schedule(t, "a1", "p1", "d1", t10)
	err := disabled.eng.Delete(ctx, "a1", "admin")
	assert.True(t, errors.Is(err, common.ErrOperationDisabled))
	_, err = disabled.eng.Find("a1")
	require.NoError(t, err)

	f := newFixture(t, Policy{AllowDelete: true})
	f.schedule(t, "a1", "p1", "d1", t10)
	f.schedule(t, "a2", "p2", "d1", t11)
	_, err = f.eng.Cancel(ctx, "a2", "clerk")
	require.NoError(t, err)

	require.NoError(t, f.eng.Delete(ctx, "a1", "admin"))
	require.NoError(t, f.eng.Delete(ctx, "a2", "admin"))
	assert.True(t, errors.Is(f.eng.Delete(ctx, "a1", "admin"), common.ErrorNotFound))

	_, err = f.eng.Find("a1")
	assert.True(t, errors.Is(err, common.ErrorNotFound))
	assert.True(t, f.available(t, "d1", t10))
	assert.Equal(t, 2, f.rec.Count(audit.EventDelete))
	f.slotsConsistent(t)
}

func TestFind_ReturnsCopy(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	f.schedule(t, "a1", "p1", "d1", t10)

	a, err := f.eng.Find("a1")
	require.NoError(t, err)
	a.Status = StatusCompleted

	again, _ := f.eng.Find("a1")
	assert.Equal(t, StatusScheduled, again.Status)

	_, err = f.eng.Find("missing")
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestListings(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	f.schedule(t, "b", "p1", "d1", t11)
	f.schedule(t, "c", "p2", "d2", t10)
	f.schedule(t, "a", "p2", "d1", t10)

	ids := func(list []Appointment) []string {
		out := []string{}
		for _, a := range list {
			out = append(out, a.ID)
		}
		return out
	}

	assert.Equal(t, []string{"a", "c", "b"}, ids(f.eng.List()))
	assert.Equal(t, []string{"a", "b"}, ids(f.eng.ForDoctor("d1")))
	assert.Equal(t, []string{"a", "c"}, ids(f.eng.ForPatient("p2")))
	assert.Empty(t, f.eng.ForPatient("nobody"))
}

func TestRestore_RebuildsSlots(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	require.NoError(t, f.dir.AddSlot("d2", "stale marker"))

	f.eng.Restore([]Appointment{
		{ID: "a1", PatientID: "p1", DoctorID: "d1", Datetime: t10, Status: StatusScheduled},
		{ID: "a2", PatientID: "p2", DoctorID: "d1", Datetime: t11, Status: StatusCancelled},
		{ID: "a3", PatientID: "p2", DoctorID: "d2", Datetime: t11},
	})

	d1, _ := f.dir.FindDoctor("d1")
	d2, _ := f.dir.FindDoctor("d2")
	assert.Equal(t, []string{t10}, d1.Schedule)
	assert.Equal(t, []string{t11}, d2.Schedule)

	a3, err := f.eng.Find("a3")
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, a3.Status, "missing status defaults to scheduled")
	f.slotsConsistent(t)
}

func TestRestore_SharedSlotHeldUntilLastHolderCloses(t *testing.T) {
	ctx := context.Background()
	shared := []Appointment{
		{ID: "a1", PatientID: "p1", DoctorID: "d1", Datetime: t10, Status: StatusScheduled},
		{ID: "a2", PatientID: "p2", DoctorID: "d1", Datetime: t10, Status: StatusScheduled},
	}

	tests := []struct {
		name  string
		finish func(e *Engine) error
	}{
		{"cancel", func(e *Engine) error {
			_, err := e.Cancel(ctx, "a1", "clerk")
			return err
		}},
		{"complete", func(e *Engine) error {
			_, err := e.Complete(ctx, "a1", "seen", "doctor")
			return err
		}},
		{"reschedule", func(e *Engine) error {
			_, err := e.Reschedule(ctx, "a1", t11, "clerk")
			return err
		}},
		{"delete", func(e *Engine) error {
			return e.Delete(ctx, "a1", "admin")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Policy{PatientConflictCheck: true, AllowDelete: true})
			f.eng.Restore(shared)

			require.NoError(t, tt.finish(f.eng))
			assert.False(t, f.available(t, "d1", t10), "a2 still holds the slot")
			f.slotsConsistent(t)

			_, err := f.eng.Schedule(ctx, "a3", "p1", "d1", t10, "clerk")
			assert.True(t, errors.Is(err, common.ErrConflict), "got %v", err)

			_, err = f.eng.Cancel(ctx, "a2", "clerk")
			require.NoError(t, err)
			assert.True(t, f.available(t, "d1", t10))
			f.slotsConsistent(t)
		})
	}
}

func TestConcurrentScheduleSameSlot(t *testing.T) {
	f := newFixture(t, Policy{})
	for i := 0; i < 20; i++ {
		require.NoError(t, f.dir.AddPatient(directory.Patient{ID: fmt.Sprintf("cp%d", i)}))
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.eng.Schedule(context.Background(), fmt.Sprintf("c%d", i), fmt.Sprintf("cp%d", i), "d1", t10, "clerk")
			if err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			} else {
				assert.True(t, errors.Is(err, common.ErrConflict))
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, success)
	d1, _ := f.dir.FindDoctor("d1")
	assert.Equal(t, []string{t10}, d1.Schedule)
}

func TestValidDatetime(t *testing.T) {
	assert.True(t, ValidDatetime("2026-01-14 10:00"))
	assert.True(t, ValidDatetime("2026-12-31 23:59"))
	assert.False(t, ValidDatetime("2026-02-30 10:00"))
	assert.False(t, ValidDatetime("2026-01-14T10:00"))
	assert.False(t, ValidDatetime("2026-01-14 10:00:00"))
	assert.False(t, ValidDatetime(""))
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusScheduled.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.True(t, StatusCompleted.Terminal())
}
