package intent

import (
	"github.com/ajitpratap0/openclaw-desk/internal/matcher"
	"github.com/ajitpratap0/openclaw-desk/internal/models"
	"github.com/ajitpratap0/openclaw-desk/internal/temporal"
)

func patientName(p models.Patient) string { return p.Name }
func patientDNI(p models.Patient) string { return p.DNI }
func appointmentOwner(a models.Appointment) string { return a.PatientName }

// resolvePatient tries the identity number first and falls back to fuzzy name matching.
func resolvePatient(query string, patients []models.Patient) (models.Patient, bool) {
	if p, ok := matcher.MatchIdentity(query, patients, patientDNI); ok {
		return p, true
	}
	p, _, ok := matcher.BestMatch(query, patients, patientName, matcher.QueryTokensInName)
	return p, ok
}

// appointmentPool merges today's agenda with the calendar window, dropping
// duplicate IDs and calendar entries that are cancelled or hidden.
func appointmentPool(snap Snapshot) []models.Appointment {
	seen := make(map[string]struct{}, len(snap.Today)+len(snap.Calendar))
	pool := make([]models.Appointment, 0, len(snap.Today)+len(snap.Calendar))
	for _, a := range snap.Today {
		if _, dup := seen[a.ID]; dup {
			continue
		}
		seen[a.ID] = struct{}{}
		pool = append(pool, a)
	}
	for _, a := range snap.Calendar {
		if !a.Visible() {
			continue
		}
		if _, dup := seen[a.ID]; dup {
			continue
		}
		seen[a.ID] = struct{}{}
		pool = append(pool, a)
	}
	return pool
}

// resolveAppointment finds the appointment whose owner is named inside the
// command text. Date and time phrases are removed first.
func resolveAppointment(text string, snap Snapshot) (models.Appointment, bool) {
	a, _, ok := matcher.BestMatch(temporal.StripCues(text), appointmentPool(snap), appointmentOwner, matcher.NameTokensInText)
	return a, ok
}

// resolvePatientOrOwner resolves a patient directly, else through the owner of
// a matching appointment.
func resolvePatientOrOwner(query string, snap Snapshot) (models.Patient, bool) {
	if p, ok := resolvePatient(query, snap.Patients); ok {
		return p, true
	}
	a, ok := resolveAppointment(query, snap)
	if !ok {
		return models.Patient{}, false
	}
	for _, p := range snap.Patients {
		if p.ID == a.PatientID {
			return p, true
		}
	}
	return models.Patient{ID: a.PatientID, Name: a.PatientName}, true
}
