package backend

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ajitpratap0/openclaw-desk/internal/models"
)

// MemoryBackend is an in-memory implementation of Backend used by tests and
// the --demo mode.
type MemoryBackend struct {
	mu           sync.RWMutex
	orders       map[int]models.Order
	products     map[int]models.Product
	appointments map[string]models.Appointment
	patients     map[string]models.Patient
	counters     models.DashboardCounters
	now          func() time.Time

	remindedOrders       []int
	remindedAppointments []string
	failures             map[string]error
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		orders:       make(map[int]models.Order),
		products:     make(map[int]models.Product),
		appointments: make(map[string]models.Appointment),
		patients:     make(map[string]models.Patient),
		failures:     make(map[string]error),
		now:          time.Now,
	}
}

// SetClock overrides the clock used to decide what "today" is.
func (m *MemoryBackend) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// PutOrder inserts or replaces an order.
func (m *MemoryBackend) PutOrder(o models.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = o
}

// PutProduct inserts or replaces a product.
func (m *MemoryBackend) PutProduct(p models.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
}

// PutAppointment inserts or replaces an appointment.
func (m *MemoryBackend) PutAppointment(a models.Appointment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appointments[a.ID] = a
}

// PutPatient inserts or replaces a patient. Tags are deep-copied.
func (m *MemoryBackend) PutPatient(p models.Patient) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.Tags = append([]models.Tag(nil), p.Tags...)
	m.patients[p.ID] = p
}

// SetCounters replaces the dashboard counters.
func (m *MemoryBackend) SetCounters(c models.DashboardCounters) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters = c
}

// FailOn makes the named operation fail with err for the given key
// (order ref, product id, appointment id or patient id, formatted with %v).
func (m *MemoryBackend) FailOn(op string, key any, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[failureKey(op, key)] = err
}

// RemindedOrders returns the order references reminders were sent for, in call order.
func (m *MemoryBackend) RemindedOrders() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]int(nil), m.remindedOrders...)
}

// RemindedAppointments returns the appointment IDs reminders were sent for.
func (m *MemoryBackend) RemindedAppointments() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.remindedAppointments...)
}

func failureKey(op string, key any) string { return fmt.Sprintf("%s/%v", op, key) }

func (m *MemoryBackend) failure(op string, key any) error {
	return m.failures[failureKey(op, key)]
}

// ListOrders returns all orders sorted by ID.
func (m *MemoryBackend) ListOrders(_ context.Context) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failure("ListOrders", ""); err != nil {
		return nil, err
	}
	out := make([]models.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetOrder matches ref against the internal ID first, then the sequence number.
func (m *MemoryBackend) GetOrder(_ context.Context, ref int) (*models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.lookupOrder(ref)
	if !ok {
		return nil, fmt.Errorf("order %d: %w", ref, ErrNotFound)
	}
	return &o, nil
}

func (m *MemoryBackend) lookupOrder(ref int) (models.Order, bool) {
	if o, ok := m.orders[ref]; ok {
		return o, true
	}
	for _, o := range m.orders {
		if o.Sequence == ref {
			return o, true
		}
	}
	return models.Order{}, false
}

// SendOrderReminder records a reminder for the order.
func (m *MemoryBackend) SendOrderReminder(_ context.Context, ref int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("SendOrderReminder", ref); err != nil {
		return err
	}
	if _, ok := m.lookupOrder(ref); !ok {
		return fmt.Errorf("order %d: %w", ref, ErrNotFound)
	}
	m.remindedOrders = append(m.remindedOrders, ref)
	return nil
}

// ListProducts returns all products sorted by ID.
func (m *MemoryBackend) ListProducts(_ context.Context) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failure("ListProducts", ""); err != nil {
		return nil, err
	}
	out := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetProduct retrieves a single product by ID.
func (m *MemoryBackend) GetProduct(_ context.Context, id int) (*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return &p, nil
}

// UpdateProduct applies the non-nil fields of upd.
func (m *MemoryBackend) UpdateProduct(_ context.Context, id int, upd models.ProductUpdate) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("UpdateProduct", id); err != nil {
		return nil, err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	if upd.Price != nil {
		p.Price = *upd.Price
	}
	if upd.Quantity != nil {
		p.Quantity = *upd.Quantity
	}
	m.products[id] = p
	return &p, nil
}

// ListTodayAppointments returns appointments starting on the current day.
func (m *MemoryBackend) ListTodayAppointments(ctx context.Context) ([]models.Appointment, error) {
	m.mu.RLock()
	now := m.now()
	m.mu.RUnlock()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return m.ListAppointments(ctx, start, start.AddDate(0, 0, 1))
}

// ListAppointments returns appointments in [from, to) ordered by start time.
func (m *MemoryBackend) ListAppointments(_ context.Context, from, to time.Time) ([]models.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failure("ListAppointments", ""); err != nil {
		return nil, err
	}
	var out []models.Appointment
	for _, a := range m.appointments {
		if !a.Start.Before(from) && a.Start.Before(to) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start.Equal(out[j].Start) {
			return out[i].ID < out[j].ID
		}
		return out[i].Start.Before(out[j].Start)
	})
	return out, nil
}

// SendAppointmentReminder records a reminder for the appointment.
func (m *MemoryBackend) SendAppointmentReminder(_ context.Context, appointmentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("SendAppointmentReminder", appointmentID); err != nil {
		return err
	}
	if _, ok := m.appointments[appointmentID]; !ok {
		return fmt.Errorf("appointment %s: %w", appointmentID, ErrNotFound)
	}
	m.remindedAppointments = append(m.remindedAppointments, appointmentID)
	return nil
}

// ListPatients returns all patients sorted by name.
func (m *MemoryBackend) ListPatients(_ context.Context) ([]models.Patient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failure("ListPatients", ""); err != nil {
		return nil, err
	}
	out := make([]models.Patient, 0, len(m.patients))
	for _, p := range m.patients {
		p.Tags = append([]models.Tag(nil), p.Tags...)
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// AddPatientTag appends a tag to the patient.
func (m *MemoryBackend) AddPatientTag(_ context.Context, patientID string, tag models.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure("AddPatientTag", patientID); err != nil {
		return err
	}
	p, ok := m.patients[patientID]
	if !ok {
		return fmt.Errorf("patient %s: %w", patientID, ErrNotFound)
	}
	p.Tags = append(p.Tags, tag)
	m.patients[patientID] = p
	return nil
}

// Counters returns the configured dashboard counters.
func (m *MemoryBackend) Counters(_ context.Context) (*models.DashboardCounters, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.failure("Counters", ""); err != nil {
		return nil, err
	}
	c := m.counters
	return &c, nil
}
