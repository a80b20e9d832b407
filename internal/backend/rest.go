package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ajitpratap0/openclaw-desk/internal/models"
)

// RESTBackend talks to the dashboard's REST API.
type RESTBackend struct {
	client *resty.Client
	logger *slog.Logger
}

// NewRESTBackend creates a client for the API rooted at baseURL.
// token is sent as a bearer token when non-empty.
func NewRESTBackend(baseURL, token string, timeout time.Duration, logger *slog.Logger) *RESTBackend {
	if logger == nil {
		logger = slog.Default()
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)
	if token != "" {
		c.SetAuthToken(token)
	}
	return &RESTBackend{client: c, logger: logger}
}

// apiError is the error body returned by the dashboard API.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusError turns a non-2xx response into an error whose text is the
// server's own message, so it can be shown to the user unchanged.
func statusError(resp *resty.Response, body *apiError) error {
	msg := body.Message
	if msg == "" {
		msg = body.Error
	}
	if msg == "" {
		msg = fmt.Sprintf("backend respondió %s", resp.Status())
	}
	if resp.StatusCode() == http.StatusNotFound {
		return fmt.Errorf("%s: %w", msg, ErrNotFound)
	}
	return errors.New(msg)
}

func (b *RESTBackend) get(ctx context.Context, path string, query map[string]string, out any) error {
	var apiErr apiError
	resp, err := b.client.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetResult(out).
		SetError(&apiErr).
		Get(path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	if resp.IsError() {
		b.logger.Debug("backend error", "method", "GET", "path", path, "status", resp.StatusCode())
		return statusError(resp, &apiErr)
	}
	return nil
}

func (b *RESTBackend) send(ctx context.Context, method, path string, body, out any) error {
	var apiErr apiError
	req := b.client.R().SetContext(ctx).SetError(&apiErr)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		b.logger.Debug("backend error", "method", method, "path", path, "status", resp.StatusCode())
		return statusError(resp, &apiErr)
	}
	return nil
}

// ListOrders implements Backend.
func (b *RESTBackend) ListOrders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	if err := b.get(ctx, "/orders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetOrder implements Backend. The API resolves ids and sequence numbers alike.
func (b *RESTBackend) GetOrder(ctx context.Context, ref int) (*models.Order, error) {
	var out models.Order
	if err := b.get(ctx, "/orders/"+strconv.Itoa(ref), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendOrderReminder implements Backend.
func (b *RESTBackend) SendOrderReminder(ctx context.Context, ref int) error {
	return b.send(ctx, http.MethodPost, "/orders/"+strconv.Itoa(ref)+"/reminder", nil, nil)
}

// ListProducts implements Backend.
func (b *RESTBackend) ListProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	if err := b.get(ctx, "/products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProduct implements Backend.
func (b *RESTBackend) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	var out models.Product
	if err := b.get(ctx, "/products/"+strconv.Itoa(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProduct implements Backend.
func (b *RESTBackend) UpdateProduct(ctx context.Context, id int, upd models.ProductUpdate) (*models.Product, error) {
	var out models.Product
	if err := b.send(ctx, http.MethodPatch, "/products/"+strconv.Itoa(id), upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTodayAppointments implements Backend.
func (b *RESTBackend) ListTodayAppointments(ctx context.Context) ([]models.Appointment, error) {
	var out []models.Appointment
	if err := b.get(ctx, "/appointments/today", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAppointments implements Backend.
func (b *RESTBackend) ListAppointments(ctx context.Context, from, to time.Time) ([]models.Appointment, error) {
	var out []models.Appointment
	q := map[string]string{
		"from": from.Format(time.RFC3339),
		"to":   to.Format(time.RFC3339),
	}
	if err := b.get(ctx, "/appointments", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendAppointmentReminder implements Backend.
func (b *RESTBackend) SendAppointmentReminder(ctx context.Context, appointmentID string) error {
	return b.send(ctx, http.MethodPost, "/appointments/"+appointmentID+"/reminder", nil, nil)
}

// ListPatients implements Backend.
func (b *RESTBackend) ListPatients(ctx context.Context) ([]models.Patient, error) {
	var out []models.Patient
	if err := b.get(ctx, "/patients", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddPatientTag implements Backend.
func (b *RESTBackend) AddPatientTag(ctx context.Context, patientID string, tag models.Tag) error {
	return b.send(ctx, http.MethodPost, "/patients/"+patientID+"/tags", tag, nil)
}

// Counters implements Backend.
func (b *RESTBackend) Counters(ctx context.Context) (*models.DashboardCounters, error) {
	var out models.DashboardCounters
	if err := b.get(ctx, "/dashboard/counters", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
