package storage

import (
	"testing"

	"github.com/adhamfakhereldeen/Cyber/internal/directory"
	"github.com/stretchr/testify/assert"
)

func TestEmpty(t *testing.T) {
	s := Empty()
	assert.NotNil(t, s.Patients)
	assert.NotNil(t, s.Doctors)
	assert.NotNil(t, s.Appointments)
	assert.NotNil(t, s.Users)
}

func TestNormalize(t *testing.T) {
	s := (&Snapshot{Patients: []directory.Patient{{ID: "p1"}}}).Normalize()
	assert.Len(t, s.Patients, 1)
	assert.NotNil(t, s.Doctors)
	assert.NotNil(t, s.Appointments)
	assert.NotNil(t, s.Users)
}
