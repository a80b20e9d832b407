package actions

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Describe renders a one-line Spanish preview of an action, shown while the
// batch waits for confirmation.
func Describe(a Action) string {
	switch a := a.(type) {
	case Navigate:
		return fmt.Sprintf("Abrir la sección %s.", a.Target)
	case SendPaymentReminders:
		if len(a.OrderIDs) == 0 {
			return "Enviar recordatorio de pago a todos los pedidos con deuda."
		}
		return fmt.Sprintf("Enviar recordatorio de pago a los pedidos %s.", joinInts(a.OrderIDs))
	case AdjustStock:
		product := a.ProductName
		if a.ProductID != nil {
			product = fmt.Sprintf("#%d", *a.ProductID)
			if a.ProductName != "" {
				product += " (" + a.ProductName + ")"
			}
		}
		if a.SetQuantity != nil {
			return fmt.Sprintf("Dejar el stock de %s en %d.", product, *a.SetQuantity)
		}
		return fmt.Sprintf("Ajustar el stock de %s en %+d.", product, *a.Delta)
	case IncreasePricesPercent:
		scope := "todos los productos"
		if len(a.ProductIDs) > 0 {
			scope = "los productos " + joinInts(a.ProductIDs)
		}
		return fmt.Sprintf("Cambiar el precio de %s en %s%%.", scope, strconv.FormatFloat(a.Percent, 'f', -1, 64))
	case BroadcastPrompt:
		return fmt.Sprintf("Preparar un envío masivo con el mensaje «%s».", a.Message)
	case Noop:
		if a.Note != "" {
			return a.Note
		}
		return "Sin cambios."
	}
	return fmt.Sprintf("Acción desconocida (%T).", a)
}

// Canonical renders actions in the canonical {type, ...fields} JSON shape
// that Normalize accepts back unchanged.
func Canonical(list []Action) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(list))
	for _, a := range list {
		data, err := json.Marshal(a)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", a.Kind(), err)
		}
		m := map[string]any{}
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("encoding %s: %w", a.Kind(), err)
		}
		m["type"] = string(a.Kind())
		out = append(out, m)
	}
	return out, nil
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = "#" + strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}
