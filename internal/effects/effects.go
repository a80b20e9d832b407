// Package effects describes the side effects an interpreted command asks for.
// Effects are plain data; Runner carries them out once the reply is already
// in the transcript.
package effects

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ajitpratap0/openclaw-desk/internal/backend"
	"github.com/ajitpratap0/openclaw-desk/internal/metrics"
	"github.com/ajitpratap0/openclaw-desk/internal/models"
	"github.com/ajitpratap0/openclaw-desk/internal/temporal"
	"github.com/ajitpratap0/openclaw-desk/internal/ui"
)

// Kind names an effect variant.
type Kind string

const (
	KindOpenSection             Kind = "open_section"
	KindOpenBroadcast           Kind = "open_broadcast"
	KindCreateTag               Kind = "create_tag"
	KindSendAppointmentReminder Kind = "send_appointment_reminder"
	KindOpenReschedule          Kind = "open_reschedule"
	KindOpenClinicalHistory     Kind = "open_clinical_history"
)

// Effect is a deferred side effect. The set of variants is closed.
type Effect interface {
	Kind() Kind
	isEffect()
}

// OpenSection switches the dashboard to a section.
type OpenSection struct {
	Section models.Section `json:"section"`
}

// OpenBroadcast opens the mass-message flow pre-filled with an audience tier and body.
type OpenBroadcast struct {
	Tier    models.Severity `json:"tier,omitempty"`
	Message string          `json:"message,omitempty"`
}

// CreateTag attaches a tag to a patient.
type CreateTag struct {
	PatientID   string     `json:"patient_id"`
	PatientName string     `json:"patient_name"`
	Tag         models.Tag `json:"tag"`
}

// SendAppointmentReminder sends the reminder for one appointment.
type SendAppointmentReminder struct {
	AppointmentID string `json:"appointment_id"`
	PatientName   string `json:"patient_name"`
}

// OpenReschedule opens the reschedule flow. Target, when set, is the time the
// user asked for and is used to auto-fill once free slots are known.
type OpenReschedule struct {
	AppointmentID string               `json:"appointment_id"`
	PatientName   string               `json:"patient_name"`
	Target        *temporal.Expression `json:"target,omitempty"`
}

// OpenClinicalHistory opens a patient record, optionally generating the history summary.
type OpenClinicalHistory struct {
	PatientID   string `json:"patient_id"`
	PatientName string `json:"patient_name"`
	Generate    bool   `json:"generate"`
}

func (OpenSection) Kind() Kind             { return KindOpenSection }
func (OpenBroadcast) Kind() Kind           { return KindOpenBroadcast }
func (CreateTag) Kind() Kind               { return KindCreateTag }
func (SendAppointmentReminder) Kind() Kind { return KindSendAppointmentReminder }
func (OpenReschedule) Kind() Kind          { return KindOpenReschedule }
func (OpenClinicalHistory) Kind() Kind     { return KindOpenClinicalHistory }

func (OpenSection) isEffect()             {}
func (OpenBroadcast) isEffect()           {}
func (CreateTag) isEffect()               {}
func (SendAppointmentReminder) isEffect() {}
func (OpenReschedule) isEffect()          {}
func (OpenClinicalHistory) isEffect()     {}

// Runner executes effects against the backend and the view layer.
type Runner struct {
	backend backend.Backend
	view    ui.View
	logger  *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(b backend.Backend, view ui.View, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{backend: b, view: view, logger: logger}
}

// Run executes effects in order. View effects produce no output; backend
// effects produce one line each reporting success or the backend's error.
// A failing effect never stops the ones after it.
func (r *Runner) Run(ctx context.Context, effs []Effect) []string {
	var notes []string
	for _, e := range effs {
		switch e := e.(type) {
		case OpenSection:
			r.view.OpenSection(e.Section)
		case OpenBroadcast:
			r.view.OpenBroadcast(e.Tier, e.Message)
		case OpenReschedule:
			label := ""
			if e.Target != nil {
				label = e.Target.TargetLabel
			}
			r.view.OpenReschedule(e.AppointmentID, label)
		case OpenClinicalHistory:
			r.view.OpenPatientRecord(e.PatientID, e.Generate)
		case SendAppointmentReminder:
			if err := r.backend.SendAppointmentReminder(ctx, e.AppointmentID); err != nil {
				metrics.Inc(metrics.EffectFailures)
				r.logger.Warn("effect failed", "kind", e.Kind(), "appointment_id", e.AppointmentID, "error", err)
				notes = append(notes, fmt.Sprintf("No pude enviar el recordatorio a %s: %v", e.PatientName, err))
				continue
			}
			notes = append(notes, fmt.Sprintf("Recordatorio enviado a %s.", e.PatientName))
		case CreateTag:
			if err := r.backend.AddPatientTag(ctx, e.PatientID, e.Tag); err != nil {
				metrics.Inc(metrics.EffectFailures)
				r.logger.Warn("effect failed", "kind", e.Kind(), "patient_id", e.PatientID, "error", err)
				notes = append(notes, fmt.Sprintf("No pude guardar el dato de %s: %v", e.PatientName, err))
				continue
			}
			notes = append(notes, fmt.Sprintf("Dato guardado en la ficha de %s.", e.PatientName))
		default:
			r.logger.Warn("unknown effect ignored", "type", fmt.Sprintf("%T", e))
		}
	}
	return notes
}
