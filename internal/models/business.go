package models

import (
	"strings"
	"time"
)

// Severity classifies how prominently a patient tag is shown.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityInfo     Severity = "info"
)

// ValidSeverities is the set of all valid tag severities.
var ValidSeverities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityInfo}

// IsValid returns true if the severity is recognized.
func (s Severity) IsValid() bool {
	for _, v := range ValidSeverities {
		if s == v {
			return true
		}
	}
	return false
}

// Section is a top-level dashboard view the engine can switch to.
type Section string

const (
	SectionOrders     Section = "orders"
	SectionDebts      Section = "debts"
	SectionStock      Section = "stock"
	SectionPromotions Section = "promotions"
	SectionClients    Section = "clients"
	SectionAgenda     Section = "agenda"
	SectionRisk       Section = "risk"
	SectionDashboard  Section = "dashboard"
)

// RetailSections are the only targets an agent-proposed navigation may use.
var RetailSections = []Section{SectionOrders, SectionDebts, SectionStock, SectionPromotions, SectionClients}

// IsRetail returns true if the section is a valid agent navigation target.
func (s Section) IsRetail() bool {
	for _, v := range RetailSections {
		if s == v {
			return true
		}
	}
	return false
}

// Tag is a free-text note attached to a patient record.
type Tag struct {
	Label    string   `json:"label"`
	Severity Severity `json:"severity"`
}

// Patient is a clinic patient.
type Patient struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	DNI   string `json:"dni,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
	Tags  []Tag  `json:"tags,omitempty"`
}

// MissingFields lists the contact fields still empty on the record.
func (p Patient) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(p.DNI) == "" {
		missing = append(missing, "dni")
	}
	if strings.TrimSpace(p.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(p.Email) == "" {
		missing = append(missing, "email")
	}
	return missing
}

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentHidden    AppointmentStatus = "hidden"
	AppointmentAttended  AppointmentStatus = "attended"
)

// Appointment is one agenda entry.
type Appointment struct {
	ID          string            `json:"id"`
	PatientID   string            `json:"patient_id"`
	PatientName string            `json:"patient_name"`
	Start       time.Time         `json:"start"`
	Status      AppointmentStatus `json:"status"`
	Service     string            `json:"service,omitempty"`
}

// Visible reports whether the appointment should be offered for lookups.
func (a Appointment) Visible() bool {
	return a.Status != AppointmentCancelled && a.Status != AppointmentHidden
}

// OrderStatus is the lifecycle state of a retail order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderDelivered OrderStatus = "delivered"
	OrderPaid      OrderStatus = "paid"
	OrderCancelled OrderStatus = "cancelled"
)

// Order is a retail order. Sequence is the customer-facing number ("pedido #12").
type Order struct {
	ID            int         `json:"id"`
	Sequence      int         `json:"sequence"`
	CustomerName  string      `json:"customer_name"`
	CustomerPhone string      `json:"customer_phone,omitempty"`
	Total         float64     `json:"total"`
	Paid          float64     `json:"paid"`
	Status        OrderStatus `json:"status"`
}

// Balance is the amount still owed on the order.
func (o Order) Balance() float64 { return o.Total - o.Paid }

// HasDebt reports whether the order is an outstanding debt.
func (o Order) HasDebt() bool {
	return o.Status != OrderCancelled && o.Balance() > 0
}

// Product is a stock item.
type Product struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// ProductUpdate carries the fields to change on a product; nil means unchanged.
type ProductUpdate struct {
	Price    *float64 `json:"price,omitempty"`
	Quantity *int     `json:"quantity,omitempty"`
}

// DashboardCounters are the live counters shown on the dashboard.
type DashboardCounters struct {
	AppointmentsToday     int `json:"appointments_today"`
	ConfirmedToday        int `json:"confirmed_today"`
	CancelledToday        int `json:"cancelled_today"`
	MessagesSentToday     int `json:"messages_sent_today"`
	UnreadChats           int `json:"unread_chats"`
	PendingConfirmations  int `json:"pending_confirmations"`
	PendingRescheduleReqs int `json:"pending_reschedule_requests"`
	AtRiskPatients        int `json:"at_risk_patients"`
}
