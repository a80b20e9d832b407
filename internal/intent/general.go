package intent

import (
	"fmt"
	"strings"

	"github.com/ajitpratap0/openclaw-desk/internal/effects"
	"github.com/ajitpratap0/openclaw-desk/internal/models"
	"github.com/ajitpratap0/openclaw-desk/internal/temporal"
	"github.com/ajitpratap0/openclaw-desk/internal/textnorm"
)

// Keyword sets, all in normalized form.
var (
	broadcastCues   = []string{"recordatorio", "recordar", "broadcast", "masivo", "campana", "envia", "manda"}
	tagNouns        = []string{"dato importante", "etiqueta", "tag"}
	tagVerbs        = []string{"pon", "agrega", "suma", "carga", "marca"}
	appointmentWord = []string{"turno", "consulta", "cita"}
	massCues        = []string{"masivo", "todos", "todas", "segmento", "campana", "broadcast"}
	rescheduleVerbs = []string{"reprogram", "reagend", "cambi", "mov", "pospon", "atras"}
	agendaCues      = []string{"agenda", "turnos", "calendario"}
	riskCues        = []string{"radar", "riesgo"}
	inboxCues       = []string{"bandeja", "inbox", "pendientes", "sin responder", "sin leer"}
	metricsCues     = []string{"metrica", "resumen", "estadistica", "numeros", "como vamos"}
	incompleteCues  = []string{"incomplet", "faltan datos", "datos faltantes", "datos pendientes", "sin dni", "sin telefono", "sin email"}
	patientCountCue = []string{"cuantos pacientes", "cantidad de pacientes", "total de pacientes", "numero de pacientes"}
	chatCues        = []string{"mensaje", "whatsapp", "chat"}
)

const (
	helpReply = "No entendí el pedido. Probá con: «recordatorio del turno de Ana», " +
		"«reprogramá la consulta de Jorge para mañana a las 10», «historia clínica de Lucía», " +
		"«mandá un mensaje masivo diciendo …» o «¿cuántos pacientes tengo?»."

	patientNotFoundReply = "No encontré al paciente. Escribí el nombre completo o el DNI tal como figura en la ficha."
)

// generalRules is the clinic chain in priority order.
var generalRules = []rule{
	{
		intent: IntentBroadcast,
		match: func(r *request) bool {
			return strings.Contains(r.text, "mensaje") && textnorm.ContainsAny(r.text, broadcastCues...)
		},
		handle: (*Interpreter).handleBroadcast,
	},
	{
		intent: IntentTagPatient,
		match: func(r *request) bool {
			return textnorm.ContainsAny(r.text, tagNouns...) && textnorm.HasWordPrefix(r.text, tagVerbs...)
		},
		handle: (*Interpreter).handleTag,
	},
	{
		intent: IntentSendReminder,
		match: func(r *request) bool {
			return strings.Contains(r.text, "recordatorio") &&
				textnorm.ContainsAny(r.text, appointmentWord...) &&
				!textnorm.ContainsAny(r.text, massCues...)
		},
		handle: (*Interpreter).handleReminder,
	},
	{
		intent: IntentReschedule,
		match: func(r *request) bool {
			return textnorm.HasWordPrefix(r.text, rescheduleVerbs...) && textnorm.ContainsAny(r.text, appointmentWord...)
		},
		handle: (*Interpreter).handleReschedule,
	},
	{
		intent: IntentClinicalHistory,
		match: func(r *request) bool {
			return textnorm.ContainsAny(r.text, "historia", "historial") && strings.Contains(r.text, "clinica")
		},
		handle: (*Interpreter).handleClinicalHistory,
	},
	{
		intent: IntentAgenda,
		match:  func(r *request) bool { return textnorm.ContainsAny(r.text, agendaCues...) },
		handle: func(_ *Interpreter, _ *request) Result {
			return Result{
				Reply:   "Te abro la agenda.",
				Effects: []effects.Effect{effects.OpenSection{Section: models.SectionAgenda}},
			}
		},
	},
	{
		intent: IntentRiskRadar,
		match:  func(r *request) bool { return textnorm.ContainsAny(r.text, riskCues...) },
		handle: func(_ *Interpreter, r *request) Result {
			return Result{
				Reply:   fmt.Sprintf("Te abro el radar de riesgo: hay %d pacientes para revisar.", r.snap.Counters.AtRiskPatients),
				Effects: []effects.Effect{effects.OpenSection{Section: models.SectionRisk}},
			}
		},
	},
	{
		intent: IntentInboxSummary,
		// "datos pendientes" is about patient records, not the inbox.
		match: func(r *request) bool {
			return textnorm.ContainsAny(r.text, inboxCues...) && !textnorm.ContainsAny(r.text, incompleteCues...)
		},
		handle: func(_ *Interpreter, r *request) Result {
			c := r.snap.Counters
			return Result{Reply: fmt.Sprintf(
				"Pendientes: %d chats sin leer, %d confirmaciones de turno y %d pedidos de reprogramación.",
				c.UnreadChats, c.PendingConfirmations, c.PendingRescheduleReqs)}
		},
	},
	{
		intent: IntentMetricsSummary,
		match:  func(r *request) bool { return textnorm.ContainsAny(r.text, metricsCues...) },
		handle: func(_ *Interpreter, r *request) Result {
			c := r.snap.Counters
			return Result{Reply: fmt.Sprintf(
				"Hoy: %d turnos (%d confirmados, %d cancelados) y %d mensajes enviados.",
				c.AppointmentsToday, c.ConfirmedToday, c.CancelledToday, c.MessagesSentToday)}
		},
	},
	{
		intent: IntentIncompleteData,
		match:  func(r *request) bool { return textnorm.ContainsAny(r.text, incompleteCues...) },
		handle: func(_ *Interpreter, r *request) Result { return Result{Reply: incompleteReply(r.snap.Patients)} },
	},
	{
		intent: IntentPatientCount,
		match:  func(r *request) bool { return textnorm.ContainsAny(r.text, patientCountCue...) },
		handle: func(_ *Interpreter, r *request) Result {
			return Result{Reply: fmt.Sprintf("Tenés %d pacientes registrados.", len(r.snap.Patients))}
		},
	},
	{
		intent: IntentChatRedirect,
		match:  func(r *request) bool { return textnorm.ContainsAny(r.text, chatCues...) },
		handle: func(_ *Interpreter, _ *request) Result {
			return Result{
				Reply:   "Los mensajes individuales se responden desde el panel de chat. Te llevo al tablero.",
				Effects: []effects.Effect{effects.OpenSection{Section: models.SectionDashboard}},
			}
		},
	},
	{
		intent: IntentFallback,
		match:  always,
		handle: func(_ *Interpreter, _ *request) Result { return Result{Reply: helpReply} },
	},
}

func (in *Interpreter) handleBroadcast(r *request) Result {
	tier := extractTier(r.text)
	body := extractMessageBody(r.raw)

	var b strings.Builder
	b.WriteString("Abro el envío masivo")
	if tier != "" {
		fmt.Fprintf(&b, " filtrado a pacientes de prioridad %s", severityLabel(tier))
	}
	if body != "" {
		fmt.Fprintf(&b, " con el mensaje «%s»", body)
	}
	b.WriteString(". Revisalo antes de enviar.")

	return Result{
		Reply:   b.String(),
		Effects: []effects.Effect{effects.OpenBroadcast{Tier: tier, Message: body}},
	}
}

func (in *Interpreter) handleTag(r *request) Result {
	p, ok := resolvePatient(r.raw, r.snap.Patients)
	if !ok {
		return Result{Reply: patientNotFoundReply}
	}
	label := extractLabel(r.raw)
	if label == "" {
		return Result{Reply: fmt.Sprintf("¿Qué dato querés cargar en la ficha de %s? Escribilo después de «etiqueta:».", p.Name)}
	}
	tag := models.Tag{Label: label, Severity: classifySeverity(label)}
	return Result{
		Reply: fmt.Sprintf("Agrego «%s» (prioridad %s) a la ficha de %s.", tag.Label, severityLabel(tag.Severity), p.Name),
		Effects: []effects.Effect{effects.CreateTag{
			PatientID:   p.ID,
			PatientName: p.Name,
			Tag:         tag,
		}},
	}
}

func (in *Interpreter) handleReminder(r *request) Result {
	a, ok := resolveAppointment(r.raw, r.snap)
	if !ok {
		return Result{
			Reply:   "No encontré ese turno. Te abro la agenda para que lo elijas.",
			Effects: []effects.Effect{effects.OpenSection{Section: models.SectionAgenda}},
		}
	}
	return Result{
		Reply: fmt.Sprintf("Envío el recordatorio del turno de %s (%s).", a.PatientName, temporal.FormatLabel(a.Start)),
		Effects: []effects.Effect{effects.SendAppointmentReminder{
			AppointmentID: a.ID,
			PatientName:   a.PatientName,
		}},
	}
}

func (in *Interpreter) handleReschedule(r *request) Result {
	expr := in.parser.Parse(r.raw)
	a, ok := resolveAppointment(r.raw, r.snap)
	if !ok {
		return Result{Reply: "No encontré el turno a reprogramar. Decime el nombre del paciente tal como figura en la agenda."}
	}
	reply := fmt.Sprintf("Abro la reprogramación del turno de %s", a.PatientName)
	if expr != nil && expr.TargetLabel != "" {
		reply += fmt.Sprintf(" y busco lugar para %s", expr.TargetLabel)
	}
	return Result{
		Reply: reply + ".",
		Effects: []effects.Effect{effects.OpenReschedule{
			AppointmentID: a.ID,
			PatientName:   a.PatientName,
			Target:        expr,
		}},
	}
}

func (in *Interpreter) handleClinicalHistory(r *request) Result {
	p, ok := resolvePatientOrOwner(r.raw, r.snap)
	if !ok {
		return Result{Reply: patientNotFoundReply}
	}
	return Result{
		Reply: fmt.Sprintf("Abro la ficha de %s y genero la historia clínica.", p.Name),
		Effects: []effects.Effect{effects.OpenClinicalHistory{
			PatientID:   p.ID,
			PatientName: p.Name,
			Generate:    true,
		}},
	}
}

func incompleteReply(patients []models.Patient) string {
	var incomplete, noDNI, noPhone, noEmail int
	for _, p := range patients {
		missing := p.MissingFields()
		if len(missing) == 0 {
			continue
		}
		incomplete++
		for _, f := range missing {
			switch f {
			case "dni":
				noDNI++
			case "phone":
				noPhone++
			case "email":
				noEmail++
			}
		}
	}
	if incomplete == 0 {
		return "Todas las fichas tienen DNI, teléfono y email cargados."
	}
	return fmt.Sprintf("Hay %d pacientes con datos incompletos: %d sin DNI, %d sin teléfono y %d sin email.",
		incomplete, noDNI, noPhone, noEmail)
}
