package backend

import (
	"time"

	"github.com/ajitpratap0/openclaw-desk/internal/models"
)

// SeedDemo fills m with a small clinic and shop so the CLI can be tried
// without a running dashboard.
func SeedDemo(m *MemoryBackend, now time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	m.PutPatient(models.Patient{ID: "p1", Name: "Ana López", DNI: "30.123.456", Phone: "+5491155550001", Email: "ana@example.com"})
	m.PutPatient(models.Patient{ID: "p2", Name: "Ana María López", DNI: "28.999.111", Phone: "+5491155550002"})
	m.PutPatient(models.Patient{ID: "p3", Name: "Jorge Paz", Phone: "+5491155550003"})
	m.PutPatient(models.Patient{ID: "p4", Name: "Lucía Fernández", DNI: "35.444.222"})

	m.PutAppointment(models.Appointment{ID: "a1", PatientID: "p1", PatientName: "Ana López", Start: today.Add(10 * time.Hour), Status: models.AppointmentConfirmed, Service: "Control"})
	m.PutAppointment(models.Appointment{ID: "a2", PatientID: "p3", PatientName: "Jorge Paz", Start: today.Add(15*time.Hour + 30*time.Minute), Status: models.AppointmentScheduled, Service: "Consulta"})
	m.PutAppointment(models.Appointment{ID: "a3", PatientID: "p4", PatientName: "Lucía Fernández", Start: today.AddDate(0, 0, 2).Add(9 * time.Hour), Status: models.AppointmentScheduled, Service: "Kinesiología"})

	m.PutProduct(models.Product{ID: 1, Name: "Coca Cola 2.25L", Category: "Bebidas", Price: 2500, Quantity: 24})
	m.PutProduct(models.Product{ID: 2, Name: "Agua mineral 1.5L", Category: "Bebidas", Price: 900, Quantity: 40})
	m.PutProduct(models.Product{ID: 3, Name: "Yerba Playadito 1kg", Category: "Almacén", Price: 4200, Quantity: 12})
	m.PutProduct(models.Product{ID: 4, Name: "Cocada casera", Category: "Dulces", Price: 700, Quantity: 8})

	m.PutOrder(models.Order{ID: 101, Sequence: 1, CustomerName: "Marta Ruiz", Total: 12000, Paid: 5000, Status: models.OrderDelivered})
	m.PutOrder(models.Order{ID: 102, Sequence: 2, CustomerName: "Pablo Sosa", Total: 8000, Paid: 8000, Status: models.OrderPaid})
	m.PutOrder(models.Order{ID: 103, Sequence: 3, CustomerName: "Nora Gil", Total: 4500, Status: models.OrderPending})

	m.SetCounters(models.DashboardCounters{
		AppointmentsToday:    2,
		ConfirmedToday:       1,
		MessagesSentToday:    14,
		UnreadChats:          3,
		PendingConfirmations: 1,
		AtRiskPatients:       2,
	})
}
