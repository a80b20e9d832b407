// Package ui defines the port through which the engine drives the dashboard
// views. The engine never renders anything; it only asks the view layer to
// switch sections or open pre-filled flows.
package ui

import (
	"sync"

	"github.com/ajitpratap0/openclaw-desk/internal/models"
)

// View is implemented by the dashboard front end. Calls are synchronous,
// fire-and-forget and side-effect only.
type View interface {
	OpenSection(section models.Section)
	OpenBroadcast(tier models.Severity, message string)
	OpenReschedule(appointmentID, targetLabel string)
	OpenPatientRecord(patientID string, generateHistory bool)
}

// CommandKind names a recorded view call.
type CommandKind string

const (
	CommandOpenSection       CommandKind = "open_section"
	CommandOpenBroadcast     CommandKind = "open_broadcast"
	CommandOpenReschedule    CommandKind = "open_reschedule"
	CommandOpenPatientRecord CommandKind = "open_patient_record"
)

// Command is one recorded view call, shaped for JSON delivery to a client.
type Command struct {
	Kind            CommandKind     `json:"kind"`
	Section         models.Section  `json:"section,omitempty"`
	Tier            models.Severity `json:"tier,omitempty"`
	Message         string          `json:"message,omitempty"`
	AppointmentID   string          `json:"appointment_id,omitempty"`
	TargetLabel     string          `json:"target_label,omitempty"`
	PatientID       string          `json:"patient_id,omitempty"`
	GenerateHistory bool            `json:"generate_history,omitempty"`
}

// Recorder is a View that queues commands for a remote front end.
type Recorder struct {
	mu       sync.Mutex
	commands []Command
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) push(c Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, c)
}

// OpenSection implements View.
func (r *Recorder) OpenSection(section models.Section) {
	r.push(Command{Kind: CommandOpenSection, Section: section})
}

// OpenBroadcast implements View.
func (r *Recorder) OpenBroadcast(tier models.Severity, message string) {
	r.push(Command{Kind: CommandOpenBroadcast, Tier: tier, Message: message})
}

// OpenReschedule implements View.
func (r *Recorder) OpenReschedule(appointmentID, targetLabel string) {
	r.push(Command{Kind: CommandOpenReschedule, AppointmentID: appointmentID, TargetLabel: targetLabel})
}

// OpenPatientRecord implements View.
func (r *Recorder) OpenPatientRecord(patientID string, generateHistory bool) {
	r.push(Command{Kind: CommandOpenPatientRecord, PatientID: patientID, GenerateHistory: generateHistory})
}

// Drain returns the queued commands in call order and empties the queue.
func (r *Recorder) Drain() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.commands
	r.commands = nil
	return out
}
