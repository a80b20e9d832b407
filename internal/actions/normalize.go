package actions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ajitpratap0/openclaw-desk/internal/models"
	"github.com/ajitpratap0/openclaw-desk/internal/textnorm"
)

// kindAliases maps every accepted spelling of a type name to its canonical kind.
var kindAliases = map[string]Kind{
	"navigate":                KindNavigate,
	"navigation":              KindNavigate,
	"open_section":            KindNavigate,
	"send_payment_reminders":  KindSendPaymentReminders,
	"sendpaymentreminders":    KindSendPaymentReminders,
	"payment_reminders":       KindSendPaymentReminders,
	"adjust_stock":            KindAdjustStock,
	"adjuststock":             KindAdjustStock,
	"update_stock":            KindAdjustStock,
	"increase_prices_percent": KindIncreasePricesPercent,
	"increasepricespercent":   KindIncreasePricesPercent,
	"increase_prices":         KindIncreasePricesPercent,
	"increaseprices":          KindIncreasePricesPercent,
	"broadcast_prompt":        KindBroadcastPrompt,
	"broadcastprompt":         KindBroadcastPrompt,
	"broadcast":               KindBroadcastPrompt,
	"noop":                    KindNoop,
	"no_op":                   KindNoop,
	"none":                    KindNoop,
}

// sectionSynonyms maps normalized navigation targets to retail sections.
var sectionSynonyms = map[string]models.Section{
	"orders":      models.SectionOrders,
	"pedidos":     models.SectionOrders,
	"pedido":      models.SectionOrders,
	"ordenes":     models.SectionOrders,
	"ventas":      models.SectionOrders,
	"debts":       models.SectionDebts,
	"deudas":      models.SectionDebts,
	"deuda":       models.SectionDebts,
	"fiados":      models.SectionDebts,
	"stock":       models.SectionStock,
	"inventario":  models.SectionStock,
	"productos":   models.SectionStock,
	"promotions":  models.SectionPromotions,
	"promos":      models.SectionPromotions,
	"promo":       models.SectionPromotions,
	"promociones": models.SectionPromotions,
	"ofertas":     models.SectionPromotions,
	"clients":     models.SectionClients,
	"clientes":    models.SectionClients,
	"customers":   models.SectionClients,
}

// Field aliases, camelCase first. Lookups are also tried in snake_case.
var (
	targetFields      = []string{"target", "section", "view", "to"}
	orderIDFields     = []string{"orderIds", "orders", "ids"}
	productIDField    = []string{"productId", "id"}
	productNameFields = []string{"productName", "name", "product"}
	deltaFields       = []string{"delta", "amount", "change"}
	setQuantityFields = []string{"setQuantity", "quantity", "set"}
	percentFields     = []string{"percent", "pct", "percentage"}
	productIDsFields  = []string{"productIds", "products"}
	messageFields     = []string{"message", "text", "prompt"}
	noteFields        = []string{"note", "reason", "message"}
)

// Report is the outcome of normalizing one batch.
type Report struct {
	Actions []Action
	// Dropped counts entries that were discarded; Reasons explains each.
	Dropped int
	Reasons []string
}

// Normalize validates an untrusted action list. Invalid entries are dropped
// silently and the survivors keep their input order.
func Normalize(raw []any) []Action {
	return Inspect(raw).Actions
}

// Inspect is Normalize with a record of what was dropped and why.
func Inspect(raw []any) Report {
	rep := Report{Actions: make([]Action, 0, len(raw))}
	for i, entry := range raw {
		a, err := normalizeEntry(entry)
		if err != nil {
			rep.Dropped++
			rep.Reasons = append(rep.Reasons, fmt.Sprintf("entry %d: %v", i, err))
			continue
		}
		rep.Actions = append(rep.Actions, a)
	}
	return rep
}

// Decode parses a JSON action batch and normalizes it. It accepts a bare
// array, an object with an "actions" array, or a single action object.
// Only malformed JSON is an error.
func Decode(data []byte) (Report, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return Report{}, fmt.Errorf("decoding actions: %w", err)
	}
	switch t := v.(type) {
	case []any:
		return Inspect(t), nil
	case map[string]any:
		if list, ok := t["actions"].([]any); ok {
			return Inspect(list), nil
		}
		return Inspect([]any{t}), nil
	case nil:
		return Inspect(nil), nil
	default:
		return Report{}, fmt.Errorf("decoding actions: unexpected %T at top level", v)
	}
}

// normalizeEntry is the total mapping from one loose entry to a variant.
func normalizeEntry(entry any) (Action, error) {
	fields, ok := entry.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("not an object (%T)", entry)
	}
	kind, fields, err := canonicalShape(fields)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindNavigate:
		return normalizeNavigate(fields)
	case KindSendPaymentReminders:
		return normalizeReminders(fields)
	case KindAdjustStock:
		return normalizeAdjustStock(fields)
	case KindIncreasePricesPercent:
		return normalizeIncreasePrices(fields)
	case KindBroadcastPrompt:
		msg := stringField(fields, messageFields...)
		if msg == "" {
			return nil, fmt.Errorf("broadcast_prompt: empty message")
		}
		return BroadcastPrompt{Message: msg}, nil
	case KindNoop:
		return Noop{Note: stringField(fields, noteFields...)}, nil
	}
	return nil, fmt.Errorf("unsupported type %q", kind)
}

// canonicalShape resolves the action kind from {type: ...} or from the
// legacy {<type>: {...}} wrapper and returns the fields to validate.
func canonicalShape(fields map[string]any) (Kind, map[string]any, error) {
	if t, ok := lookup(fields, "type", "action", "kind"); ok {
		name, _ := t.(string)
		kind, ok := resolveKind(name)
		if !ok {
			return "", nil, fmt.Errorf("unknown type %q", name)
		}
		return kind, fields, nil
	}

	if len(fields) != 1 {
		return "", nil, fmt.Errorf("missing type")
	}
	for key, inner := range fields {
		kind, ok := resolveKind(key)
		if !ok {
			return "", nil, fmt.Errorf("unknown type %q", key)
		}
		switch v := inner.(type) {
		case map[string]any:
			return kind, v, nil
		case nil, bool:
			return kind, map[string]any{}, nil
		default:
			return "", nil, fmt.Errorf("%s: wrapper value is %T, not an object", kind, inner)
		}
	}
	return "", nil, fmt.Errorf("missing type")
}

func resolveKind(name string) (Kind, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, "-", "_")
	if k, ok := kindAliases[key]; ok {
		return k, true
	}
	k, ok := kindAliases[strings.ReplaceAll(key, "_", "")]
	return k, ok
}

func normalizeNavigate(fields map[string]any) (Action, error) {
	target := stringField(fields, targetFields...)
	section, ok := sectionSynonyms[textnorm.Normalize(target)]
	if !ok {
		return nil, fmt.Errorf("navigate: unmappable target %q", target)
	}
	return Navigate{Target: section}, nil
}

func normalizeReminders(fields map[string]any) (Action, error) {
	raw, present := lookup(fields, orderIDFields...)
	ids, total := intList(raw)
	// A list that had entries but none usable must not widen to "all debts".
	if present && total > 0 && len(ids) == 0 {
		return nil, fmt.Errorf("send_payment_reminders: no valid order ids")
	}
	return SendPaymentReminders{OrderIDs: ids}, nil
}

func normalizeAdjustStock(fields map[string]any) (Action, error) {
	var a AdjustStock
	if v, ok := lookup(fields, productIDField...); ok {
		if id, ok := toInt(v); ok {
			a.ProductID = &id
		} else if s, ok := v.(string); ok {
			// Agents sometimes put the product name in the id slot.
			a.ProductName = strings.TrimSpace(s)
		}
	}
	if name := stringField(fields, productNameFields...); name != "" {
		a.ProductName = name
	}
	if v, ok := lookup(fields, deltaFields...); ok {
		if d, ok := toInt(v); ok {
			a.Delta = &d
		}
	}
	if v, ok := lookup(fields, setQuantityFields...); ok {
		if q, ok := toInt(v); ok {
			a.SetQuantity = &q
		}
	}

	if a.ProductID == nil && a.ProductName == "" {
		return nil, fmt.Errorf("adjust_stock: no product id or name")
	}
	if a.Delta == nil && a.SetQuantity == nil {
		return nil, fmt.Errorf("adjust_stock: no delta or quantity")
	}
	return a, nil
}

func normalizeIncreasePrices(fields map[string]any) (Action, error) {
	v, ok := lookup(fields, percentFields...)
	if !ok {
		return nil, fmt.Errorf("increase_prices_percent: missing percent")
	}
	pct, ok := toFloat(v)
	if !ok || math.IsNaN(pct) || math.IsInf(pct, 0) {
		return nil, fmt.Errorf("increase_prices_percent: invalid percent %v", v)
	}
	if pct == 0 {
		return nil, fmt.Errorf("increase_prices_percent: zero percent")
	}
	raw, _ := lookup(fields, productIDsFields...)
	ids, _ := intList(raw)
	return IncreasePricesPercent{Percent: pct, ProductIDs: ids}, nil
}

// lookup returns the first present field among names, trying each name as
// given and in snake_case.
func lookup(fields map[string]any, names ...string) (any, bool) {
	for _, n := range names {
		if v, ok := fields[n]; ok && v != nil {
			return v, true
		}
		if v, ok := fields[snakeCase(n)]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func stringField(fields map[string]any, names ...string) string {
	v, ok := lookup(fields, names...)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// intList coerces a list (or a single scalar) to de-duplicated integers in
// first-seen order. total is the number of entries inspected.
func intList(v any) (ids []int, total int) {
	var items []any
	switch t := v.(type) {
	case nil:
		return nil, 0
	case []any:
		items = t
	default:
		items = []any{t}
	}
	seen := make(map[int]struct{}, len(items))
	for _, item := range items {
		n, ok := toInt(item)
		if !ok {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		ids = append(ids, n)
	}
	return ids, len(items)
}

// toInt accepts integral numbers and numeric strings ("12", "#12", "+5").
func toInt(v any) (int, bool) {
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

// toFloat accepts JSON numbers and numeric strings ("10", "10%", "2,5").
func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(t)
		s = strings.TrimPrefix(s, "#")
		s = strings.TrimSuffix(s, "%")
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}
