package backend

import (
	"context"
	"errors"
	"time"

	"github.com/ajitpratap0/openclaw-desk/internal/models"
)

// ErrNotFound is returned when the requested order, product, appointment or
// patient does not exist.
var ErrNotFound = errors.New("not found")

// Backend is the business data service the engine reads from and writes to.
// Errors carry a human-readable message that callers relay verbatim.
type Backend interface {
	// ListOrders returns every order known to the backend.
	ListOrders(ctx context.Context) ([]models.Order, error)

	// GetOrder looks an order up by internal id or customer-facing sequence number.
	GetOrder(ctx context.Context, ref int) (*models.Order, error)

	// SendOrderReminder sends a payment reminder for the order with the given reference.
	SendOrderReminder(ctx context.Context, ref int) error

	// ListProducts returns the product catalogue with current stock.
	ListProducts(ctx context.Context) ([]models.Product, error)

	// GetProduct retrieves a single product by ID.
	GetProduct(ctx context.Context, id int) (*models.Product, error)

	// UpdateProduct applies the non-nil fields of upd and returns the stored product.
	UpdateProduct(ctx context.Context, id int, upd models.ProductUpdate) (*models.Product, error)

	// ListTodayAppointments returns today's agenda.
	ListTodayAppointments(ctx context.Context) ([]models.Appointment, error)

	// ListAppointments returns the calendar window [from, to).
	ListAppointments(ctx context.Context, from, to time.Time) ([]models.Appointment, error)

	// SendAppointmentReminder sends the reminder message for one appointment.
	SendAppointmentReminder(ctx context.Context, appointmentID string) error

	// ListPatients returns every patient.
	ListPatients(ctx context.Context) ([]models.Patient, error)

	// AddPatientTag attaches a tag to a patient record.
	AddPatientTag(ctx context.Context, patientID string, tag models.Tag) error

	// Counters returns the live dashboard counters.
	Counters(ctx context.Context) (*models.DashboardCounters, error)
}
