package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/ajitpratap0/openclaw-desk/internal/actions"
	"github.com/ajitpratap0/openclaw-desk/internal/metrics"
	"github.com/ajitpratap0/openclaw-desk/internal/models"
)

// cachedOrders returns the local order list, reloading it when it is stale
// or when want names an order it does not hold. A batch reloads at most once.
// On a failed reload it returns the cached list together with the error.
func (e *Engine) cachedOrders(ctx context.Context, st *batch, want []int) ([]models.Order, error) {
	e.mu.Lock()
	orders, loadedAt := e.orders, e.loadedAt
	e.mu.Unlock()

	stale := loadedAt.IsZero() || e.now().Sub(loadedAt) > e.ttl
	if st.reloaded || (!stale && !missingAny(orders, want)) {
		return orders, nil
	}

	st.reloaded = true
	metrics.Inc(metrics.OrderCacheReloads)
	fresh, err := e.backend.ListOrders(ctx)
	if err != nil {
		e.logger.Warn("order reload failed, using cached orders", "cached", len(orders), "error", err)
		return orders, fmt.Errorf("listing orders: %w", err)
	}
	e.mu.Lock()
	e.orders, e.loadedAt = fresh, e.now()
	e.mu.Unlock()
	return fresh, nil
}

// findOrder matches ref against internal IDs first, then sequence numbers.
func findOrder(orders []models.Order, ref int) (models.Order, bool) {
	for _, o := range orders {
		if o.ID == ref {
			return o, true
		}
	}
	for _, o := range orders {
		if o.Sequence == ref {
			return o, true
		}
	}
	return models.Order{}, false
}

func missingAny(orders []models.Order, refs []int) bool {
	for _, ref := range refs {
		if _, ok := findOrder(orders, ref); !ok {
			return true
		}
	}
	return false
}

func (e *Engine) sendPaymentReminders(ctx context.Context, st *batch, a actions.SendPaymentReminders) []string {
	refs := a.OrderIDs
	orders, loadErr := e.cachedOrders(ctx, st, refs)

	if len(refs) == 0 {
		// Without a list there is nothing to pick debts from.
		if loadErr != nil && len(orders) == 0 {
			return []string{e.failed(
				fmt.Sprintf("No pude leer los pedidos: %v", errors.Unwrap(loadErr)),
				loadErr, "action", actions.KindSendPaymentReminders)}
		}
		for _, o := range orders {
			if o.HasDebt() {
				refs = append(refs, o.ID)
			}
		}
		if len(refs) == 0 {
			return []string{"No hay pedidos con deuda pendiente."}
		}
	}

	lines := make([]string, 0, len(refs))
	var unresolved []int
	for _, ref := range refs {
		o, ok := findOrder(orders, ref)
		if !ok {
			unresolved = append(unresolved, ref)
			continue
		}
		if err := e.backend.SendOrderReminder(ctx, o.ID); err != nil {
			lines = append(lines, e.failed(
				fmt.Sprintf("No pude enviar el recordatorio del pedido #%d (%s): %v", o.Sequence, o.CustomerName, err),
				err, "action", actions.KindSendPaymentReminders, "order_id", o.ID))
			continue
		}
		lines = append(lines, fmt.Sprintf("Recordatorio de pago enviado a %s (pedido #%d, saldo $%.0f).", o.CustomerName, o.Sequence, o.Balance()))
	}

	// Last resort: let the backend resolve the raw reference itself.
	for _, ref := range unresolved {
		if err := e.backend.SendOrderReminder(ctx, ref); err != nil {
			lines = append(lines, e.failed(
				fmt.Sprintf("No pude enviar el recordatorio del pedido #%d: %v", ref, err),
				err, "action", actions.KindSendPaymentReminders, "order_ref", ref))
			continue
		}
		lines = append(lines, fmt.Sprintf("Recordatorio de pago enviado (pedido #%d).", ref))
	}
	return lines
}
