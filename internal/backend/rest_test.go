package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/openclaw-desk/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// newDashboard serves a fake dashboard API under /api and records the last
// tag and product patch it received.
func newDashboard(t *testing.T) (*RESTBackend, *models.Tag, *models.ProductUpdate) {
	t.Helper()
	var (
		gotTag   models.Tag
		gotPatch models.ProductUpdate
	)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/orders", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []models.Order{{ID: 7, Sequence: 1, CustomerName: "Marta", Total: 100, Status: models.OrderPending}})
	})
	mux.HandleFunc("GET /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "2" {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Producto inexistente"})
			return
		}
		writeJSON(w, http.StatusOK, models.Product{ID: 2, Name: "Agua", Quantity: 5})
	})
	mux.HandleFunc("PATCH /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotPatch)
		writeJSON(w, http.StatusOK, models.Product{ID: 2, Name: "Agua", Quantity: *gotPatch.Quantity})
	})
	mux.HandleFunc("POST /api/orders/{ref}/reminder", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("ref") == "5" {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "El cliente no tiene teléfono"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/appointments", func(w http.ResponseWriter, r *http.Request) {
		from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "from inválido"})
			return
		}
		writeJSON(w, http.StatusOK, []models.Appointment{{ID: "a1", PatientName: "Ana", Start: from.Add(10 * time.Hour)}})
	})
	mux.HandleFunc("POST /api/patients/{id}/tags", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotTag)
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("GET /api/dashboard/counters", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.DashboardCounters{UnreadChats: 4})
	})
	mux.HandleFunc("GET /api/patients", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	auth := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Sesión vencida"})
			return
		}
		mux.ServeHTTP(w, r)
	})
	ts := httptest.NewServer(auth)
	t.Cleanup(ts.Close)
	return NewRESTBackend(ts.URL+"/api", "tok", 5*time.Second, nil), &gotTag, &gotPatch
}

func TestREST_Reads(t *testing.T) {
	b, _, _ := newDashboard(t)
	ctx := context.Background()

	orders, err := b.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Marta", orders[0].CustomerName)

	p, err := b.GetProduct(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Agua", p.Name)

	from := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)
	appts, err := b.ListAppointments(ctx, from, from.AddDate(0, 0, 14))
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.True(t, appts[0].Start.Equal(from.Add(10*time.Hour)))

	c, err := b.Counters(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, c.UnreadChats)
}

func TestREST_Writes(t *testing.T) {
	b, gotTag, gotPatch := newDashboard(t)
	ctx := context.Background()

	qty := 12
	p, err := b.UpdateProduct(ctx, 2, models.ProductUpdate{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, 12, p.Quantity)
	require.NotNil(t, gotPatch.Quantity)
	assert.Nil(t, gotPatch.Price, "unchanged fields are not sent")

	require.NoError(t, b.SendOrderReminder(ctx, 7))
	require.NoError(t, b.AddPatientTag(ctx, "p1", models.Tag{Label: "Diabético", Severity: models.SeverityHigh}))
	assert.Equal(t, "Diabético", gotTag.Label)
}

func TestREST_ErrorsCarryServerMessage(t *testing.T) {
	b, _, _ := newDashboard(t)
	ctx := context.Background()

	_, err := b.GetProduct(ctx, 9)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "Producto inexistente")

	err = b.SendOrderReminder(ctx, 5)
	require.Error(t, err)
	assert.Equal(t, "El cliente no tiene teléfono", err.Error())

	_, err = b.ListPatients(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestREST_BearerToken(t *testing.T) {
	b, _, _ := newDashboard(t)
	b.client.SetAuthToken("otro")

	_, err := b.ListOrders(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Sesión vencida", err.Error())
}
