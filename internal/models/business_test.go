package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrder_HasDebt(t *testing.T) {
	tests := []struct {
		name  string
		order Order
		want  bool
	}{
		{"partially paid", Order{Total: 100, Paid: 40, Status: OrderDelivered}, true},
		{"fully paid", Order{Total: 100, Paid: 100, Status: OrderPaid}, false},
		{"cancelled with balance", Order{Total: 100, Status: OrderCancelled}, false},
		{"overpaid", Order{Total: 100, Paid: 120, Status: OrderPaid}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.order.HasDebt())
		})
	}
	assert.Equal(t, 60.0, Order{Total: 100, Paid: 40}.Balance())
}

func TestPatient_MissingFields(t *testing.T) {
	assert.Equal(t, []string{"dni", "phone", "email"}, Patient{Name: "Ana"}.MissingFields())
	assert.Equal(t, []string{"email"}, Patient{DNI: "1", Phone: " 2 ", Email: "  "}.MissingFields())
	assert.Empty(t, Patient{DNI: "1", Phone: "2", Email: "a@b"}.MissingFields())
}

func TestAppointment_Visible(t *testing.T) {
	assert.True(t, Appointment{Status: AppointmentScheduled}.Visible())
	assert.True(t, Appointment{Status: AppointmentAttended}.Visible())
	assert.False(t, Appointment{Status: AppointmentCancelled}.Visible())
	assert.False(t, Appointment{Status: AppointmentHidden}.Visible())
}

func TestSection_IsRetail(t *testing.T) {
	for _, s := range RetailSections {
		assert.True(t, s.IsRetail(), s)
	}
	assert.False(t, SectionAgenda.IsRetail())
	assert.False(t, Section("kitchen").IsRetail())
}

func TestSeverity_IsValid(t *testing.T) {
	for _, s := range ValidSeverities {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, Severity("urgent").IsValid())
}
