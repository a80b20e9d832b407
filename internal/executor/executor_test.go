package executor

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/openclaw-desk/internal/actions"
	"github.com/ajitpratap0/openclaw-desk/internal/backend"
	"github.com/ajitpratap0/openclaw-desk/internal/models"
	"github.com/ajitpratap0/openclaw-desk/internal/ui"
)

// countingBackend counts order list reloads.
type countingBackend struct {
	*backend.MemoryBackend
	listOrders atomic.Int32
}

func (c *countingBackend) ListOrders(ctx context.Context) ([]models.Order, error) {
	c.listOrders.Add(1)
	return c.MemoryBackend.ListOrders(ctx)
}

type fixture struct {
	backend *countingBackend
	view    *ui.Recorder
	engine  *Engine
	clock   *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)
	mem := backend.NewMemoryBackend()
	backend.SeedDemo(mem, now)

	f := &fixture{backend: &countingBackend{MemoryBackend: mem}, view: ui.NewRecorder(), clock: &now}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	f.engine = New(f.backend, f.view, logger,
		WithOrderCacheTTL(time.Minute),
		WithClock(func() time.Time { return *f.clock }),
	)
	return f
}

func intPtr(v int) *int { return &v }

func TestExecute_EmptyBatch(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, []string{NothingExecuted}, f.engine.Execute(context.Background(), nil))
	assert.Equal(t, []string{NothingExecuted}, f.engine.Execute(context.Background(), []actions.Action{actions.Noop{}}))
}

func TestExecute_AdjustStockIsolation(t *testing.T) {
	f := newFixture(t)
	lines := f.engine.Execute(context.Background(), []actions.Action{
		actions.AdjustStock{ProductName: "coca", Delta: intPtr(6)},
		actions.AdjustStock{ProductName: "fernet", Delta: intPtr(1)},
		actions.AdjustStock{ProductID: intPtr(3), SetQuantity: intPtr(-5)},
	})
	require.Len(t, lines, 3)
	assert.Equal(t, "Stock de Coca Cola 2.25L: 24 → 30.", lines[0])
	assert.Equal(t, "No encontré el producto «fernet» para ajustar el stock.", lines[1])
	assert.Equal(t, "Stock de Yerba Playadito 1kg: 12 → 0.", lines[2])
}

func TestExecute_AdjustStockSequentialWrites(t *testing.T) {
	f := newFixture(t)
	lines := f.engine.Execute(context.Background(), []actions.Action{
		actions.AdjustStock{ProductID: intPtr(2), Delta: intPtr(-30)},
		actions.AdjustStock{ProductID: intPtr(2), Delta: intPtr(-30)},
	})
	assert.Equal(t, []string{
		"Stock de Agua mineral 1.5L: 40 → 10.",
		"Stock de Agua mineral 1.5L: 10 → 0.",
	}, lines)
}

func TestExecute_AdjustStockUnknownIDFallsBackToName(t *testing.T) {
	f := newFixture(t)
	lines := f.engine.Execute(context.Background(), []actions.Action{
		actions.AdjustStock{ProductID: intPtr(99), ProductName: "agua", SetQuantity: intPtr(5)},
		actions.AdjustStock{ProductID: intPtr(99), Delta: intPtr(1)},
	})
	require.Len(t, lines, 2)
	assert.Equal(t, "Stock de Agua mineral 1.5L: 40 → 5.", lines[0])
	assert.Equal(t, "No encontré el producto #99 para ajustar el stock.", lines[1])
}

func TestBestProduct_BeverageBoost(t *testing.T) {
	products := []models.Product{
		{ID: 4, Name: "Cocada casera", Category: "Dulces"},
		{ID: 7, Name: "Cola de carpintero", Category: "Ferretería"},
		{ID: 1, Name: "Coca Cola 2.25L", Category: "Bebidas"},
	}
	p, ok := bestProduct("coca cola", products)
	require.True(t, ok)
	assert.Equal(t, 1, p.ID)

	_, ok = bestProduct("tornillos", products)
	assert.False(t, ok)
}

func TestExecute_PaymentRemindersExplicit(t *testing.T) {
	f := newFixture(t)
	lines := f.engine.Execute(context.Background(), []actions.Action{
		actions.SendPaymentReminders{OrderIDs: []int{1, 103, 999}},
	})
	require.Len(t, lines, 3)
	assert.Equal(t, "Recordatorio de pago enviado a Marta Ruiz (pedido #1, saldo $7000).", lines[0])
	assert.Equal(t, "Recordatorio de pago enviado a Nora Gil (pedido #3, saldo $4500).", lines[1])
	assert.Contains(t, lines[2], "No pude enviar el recordatorio del pedido #999")
	assert.Contains(t, lines[2], "not found")

	assert.Equal(t, []int{101, 103}, f.backend.RemindedOrders())
	assert.Equal(t, int32(1), f.backend.listOrders.Load(), "one reload per batch")
}

func TestExecute_PaymentRemindersAllDebts(t *testing.T) {
	f := newFixture(t)
	lines := f.engine.Execute(context.Background(), []actions.Action{actions.SendPaymentReminders{}})
	assert.Len(t, lines, 2)
	assert.Equal(t, []int{101, 103}, f.backend.RemindedOrders())
}

func TestExecute_PaymentReminderFailureIsIsolated(t *testing.T) {
	f := newFixture(t)
	f.backend.FailOn("SendOrderReminder", 101, errors.New("el cliente no tiene teléfono"))

	lines := f.engine.Execute(context.Background(), []actions.Action{actions.SendPaymentReminders{}})
	require.Len(t, lines, 2)
	assert.Equal(t, "No pude enviar el recordatorio del pedido #1 (Marta Ruiz): el cliente no tiene teléfono", lines[0])
	assert.Contains(t, lines[1], "Nora Gil")
}

func TestExecute_PaymentRemindersAllDebtsBackendDown(t *testing.T) {
	f := newFixture(t)
	f.backend.FailOn("ListOrders", "", errors.New("servicio caído"))

	lines := f.engine.Execute(context.Background(), []actions.Action{actions.SendPaymentReminders{}})
	assert.Equal(t, []string{"No pude leer los pedidos: servicio caído"}, lines)
	assert.Empty(t, f.backend.RemindedOrders())
}

func TestExecute_PaymentRemindersStaleCacheOnReloadFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.engine.Execute(ctx, []actions.Action{actions.SendPaymentReminders{OrderIDs: []int{101}}})
	*f.clock = f.clock.Add(2 * time.Minute)
	f.backend.FailOn("ListOrders", "", errors.New("servicio caído"))

	lines := f.engine.Execute(ctx, []actions.Action{actions.SendPaymentReminders{}})
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Marta Ruiz")
	assert.Contains(t, lines[1], "Nora Gil")
}

func TestExecute_OrderCacheReload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.engine.Execute(ctx, []actions.Action{actions.SendPaymentReminders{OrderIDs: []int{101}}})
	require.Equal(t, int32(1), f.backend.listOrders.Load())

	// Fresh cache holding every requested id: no reload.
	f.engine.Execute(ctx, []actions.Action{actions.SendPaymentReminders{OrderIDs: []int{3}}})
	assert.Equal(t, int32(1), f.backend.listOrders.Load())

	// A new order unknown to the cache forces one reload.
	f.backend.PutOrder(models.Order{ID: 104, Sequence: 4, CustomerName: "Iván Rey", Total: 100, Status: models.OrderPending})
	lines := f.engine.Execute(ctx, []actions.Action{
		actions.SendPaymentReminders{OrderIDs: []int{4}},
		actions.SendPaymentReminders{OrderIDs: []int{4, 555}},
	})
	assert.Equal(t, int32(2), f.backend.listOrders.Load())
	assert.Contains(t, lines[0], "Iván Rey")

	// Stale by age.
	*f.clock = f.clock.Add(2 * time.Minute)
	f.engine.Execute(ctx, []actions.Action{actions.SendPaymentReminders{OrderIDs: []int{101}}})
	assert.Equal(t, int32(3), f.backend.listOrders.Load())
}

func TestExecute_IncreasePrices(t *testing.T) {
	f := newFixture(t)
	f.backend.FailOn("UpdateProduct", 2, errors.New("precio bloqueado"))
	ctx := context.Background()

	lines := f.engine.Execute(ctx, []actions.Action{actions.IncreasePricesPercent{Percent: 10}})
	assert.Equal(t, []string{"Precios actualizados (+10%) en 3 de 4 productos."}, lines)

	p, err := f.backend.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2750.0, p.Price)
	p, err = f.backend.GetProduct(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 900.0, p.Price)

	lines = f.engine.Execute(ctx, []actions.Action{actions.IncreasePricesPercent{Percent: -200, ProductIDs: []int{3, 42}}})
	assert.Equal(t, []string{"Precios actualizados (-200%) en 1 de 1 productos."}, lines)
	p, err = f.backend.GetProduct(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.Price)
}

func TestExecute_ViewActions(t *testing.T) {
	f := newFixture(t)
	lines := f.engine.Execute(context.Background(), []actions.Action{
		actions.Navigate{Target: models.SectionDebts},
		actions.BroadcastPrompt{Message: "Promo 2x1"},
		actions.Noop{Note: "Listo."},
		nil,
	})
	assert.Equal(t, []string{
		"Abrí la sección de deudas.",
		"Abrí el envío masivo con el mensaje «Promo 2x1». Revisalo antes de enviar.",
		"Listo.",
		"Acción ignorada: <nil>.",
	}, lines)
	assert.Equal(t, []ui.Command{
		{Kind: ui.CommandOpenSection, Section: models.SectionDebts},
		{Kind: ui.CommandOpenBroadcast, Message: "Promo 2x1"},
	}, f.view.Drain())
}
