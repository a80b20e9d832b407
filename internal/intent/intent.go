// Package intent maps a typed Spanish command to a reply and a list of
// deferred effects using ordered keyword rules.
package intent

import (
	"log/slog"
	"time"

	"github.com/ajitpratap0/openclaw-desk/internal/effects"
	"github.com/ajitpratap0/openclaw-desk/internal/models"
	"github.com/ajitpratap0/openclaw-desk/internal/temporal"
	"github.com/ajitpratap0/openclaw-desk/internal/textnorm"
)

// Intent is the classified goal of a command.
type Intent string

const (
	IntentBroadcast        Intent = "broadcast_message"
	IntentTagPatient       Intent = "tag_patient"
	IntentSendReminder     Intent = "send_single_reminder"
	IntentReschedule       Intent = "reschedule_appointment"
	IntentClinicalHistory  Intent = "open_clinical_history"
	IntentAgenda           Intent = "navigate_to_agenda"
	IntentRiskRadar        Intent = "navigate_to_risk_radar"
	IntentInboxSummary     Intent = "inbox_summary"
	IntentMetricsSummary   Intent = "metrics_summary"
	IntentIncompleteData   Intent = "incomplete_data_summary"
	IntentPatientCount     Intent = "patient_count_query"
	IntentChatRedirect     Intent = "generic_chat_redirect"
	IntentFallback         Intent = "fallback_help"
	IntentOrdersLookup     Intent = "orders_lookup"
	IntentDebtsLookup      Intent = "debts_lookup"
	IntentStockLookup      Intent = "stock_lookup"
	IntentPromotionsLookup Intent = "promotions_lookup"
)

// Mode selects which rule chain applies.
type Mode string

const (
	ModeGeneral Mode = "general"
	ModeRetail  Mode = "retail"
)

// IsValid returns true if the mode is recognized.
func (m Mode) IsValid() bool { return m == ModeGeneral || m == ModeRetail }

// Snapshot is the live business state a command is interpreted against.
type Snapshot struct {
	Now      time.Time
	Patients []models.Patient
	Today    []models.Appointment
	Calendar []models.Appointment
	Counters models.DashboardCounters
}

// Result is the outcome of interpreting one command. Effects must only run
// after Reply has been shown to the user.
type Result struct {
	Intent  Intent           `json:"intent"`
	Reply   string           `json:"reply"`
	Effects []effects.Effect `json:"-"`
}

// request is the per-command state shared by match and handle.
type request struct {
	raw  string
	text string // textnorm.Normalize(raw)
	snap Snapshot
}

type rule struct {
	intent Intent
	match  func(*request) bool
	handle func(*Interpreter, *request) Result
}

// Interpreter evaluates an ordered rule chain, first match wins.
type Interpreter struct {
	mode   Mode
	parser *temporal.Parser
	chain  []rule
	logger *slog.Logger
}

// NewInterpreter creates an Interpreter for the given business mode.
func NewInterpreter(mode Mode, parser *temporal.Parser, logger *slog.Logger) *Interpreter {
	if logger == nil {
		logger = slog.Default()
	}
	if parser == nil {
		parser = temporal.NewParser()
	}
	chain := generalRules
	if mode == ModeRetail {
		chain = retailRules
	}
	return &Interpreter{mode: mode, parser: parser, chain: chain, logger: logger}
}

// Mode returns the business mode of the interpreter.
func (in *Interpreter) Mode() Mode { return in.mode }

// Interpret classifies raw and builds the reply and effects. It never fails:
// unmatched text yields the fallback help reply.
func (in *Interpreter) Interpret(raw string, snap Snapshot) Result {
	req := &request{raw: raw, text: textnorm.Normalize(raw), snap: snap}
	for _, r := range in.chain {
		if r.match(req) {
			res := r.handle(in, req)
			res.Intent = r.intent
			in.logger.Debug("interpreted command", "mode", in.mode, "intent", res.Intent, "effects", len(res.Effects))
			return res
		}
	}
	// Both chains end in an always-matching fallback.
	return Result{Intent: IntentFallback, Reply: helpReply}
}

// Intents lists the intents of the active chain in priority order.
func (in *Interpreter) Intents() []Intent {
	out := make([]Intent, 0, len(in.chain))
	for _, r := range in.chain {
		out = append(out, r.intent)
	}
	return out
}

func always(*request) bool { return true }
