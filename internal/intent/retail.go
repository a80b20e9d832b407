package intent

import (
	"strings"

	"github.com/ajitpratap0/openclaw-desk/internal/effects"
	"github.com/ajitpratap0/openclaw-desk/internal/models"
	"github.com/ajitpratap0/openclaw-desk/internal/textnorm"
)

const retailHelpReply = "Puedo mostrarte pedidos, deudas, stock o promociones. " +
	"Para otras tareas (ajustar stock, subir precios, recordar deudas) describí lo que necesitás y lo preparo."

// lookupVerbs mark a command as a plain "show me" request rather than a task
// for the agent.
var lookupVerbs = []string{"ver", "mostr", "mira", "abr", "list", "cual", "ir"}

// isLookup reports whether text reads as a lookup: an explicit show/open verb,
// or just the section keyword on its own.
func isLookup(text string) bool {
	return textnorm.HasWordPrefix(text, lookupVerbs...) || len(strings.Fields(text)) <= 2
}

func sectionRule(intent Intent, section models.Section, reply string, cues ...string) rule {
	return rule{
		intent: intent,
		match: func(r *request) bool {
			return textnorm.ContainsAny(r.text, cues...) && isLookup(r.text)
		},
		handle: func(_ *Interpreter, _ *request) Result {
			return Result{
				Reply:   reply,
				Effects: []effects.Effect{effects.OpenSection{Section: section}},
			}
		},
	}
}

// retailRules is the shop chain in priority order.
var retailRules = []rule{
	sectionRule(IntentOrdersLookup, models.SectionOrders, "Te muestro los pedidos.", "pedido", "orden", "ventas"),
	sectionRule(IntentDebtsLookup, models.SectionDebts, "Te muestro las deudas pendientes.", "deuda", "debe", "fiado", "saldo"),
	sectionRule(IntentStockLookup, models.SectionStock, "Te muestro el stock.", "stock", "inventario", "mercaderia"),
	sectionRule(IntentPromotionsLookup, models.SectionPromotions, "Te muestro las promociones.", "promo", "oferta", "descuento"),
	{
		intent: IntentFallback,
		match:  always,
		handle: func(_ *Interpreter, _ *request) Result { return Result{Reply: retailHelpReply} },
	},
}
