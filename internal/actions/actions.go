// Package actions holds the closed set of executable actions an agent may
// propose, and the normalizer that builds them from untrusted JSON.
package actions

import "github.com/ajitpratap0/openclaw-desk/internal/models"

// Kind is the canonical type name of an action.
type Kind string

const (
	KindNavigate              Kind = "navigate"
	KindSendPaymentReminders  Kind = "send_payment_reminders"
	KindAdjustStock           Kind = "adjust_stock"
	KindIncreasePricesPercent Kind = "increase_prices_percent"
	KindBroadcastPrompt       Kind = "broadcast_prompt"
	KindNoop                  Kind = "noop"
)

// ValidKinds is the set of all canonical action kinds.
var ValidKinds = []Kind{
	KindNavigate,
	KindSendPaymentReminders,
	KindAdjustStock,
	KindIncreasePricesPercent,
	KindBroadcastPrompt,
	KindNoop,
}

// IsValid returns true if the kind is recognized.
func (k Kind) IsValid() bool {
	for _, v := range ValidKinds {
		if k == v {
			return true
		}
	}
	return false
}

// Action is one validated, executable operation. The set of variants is
// closed; only Normalize constructs them from untrusted input.
type Action interface {
	Kind() Kind
	isAction()
}

// Navigate switches the dashboard to a retail section.
type Navigate struct {
	Target models.Section `json:"target"`
}

// SendPaymentReminders sends a payment reminder per order. OrderIDs holds
// internal IDs or customer-facing sequence numbers without duplicates; empty
// means every order with outstanding debt.
type SendPaymentReminders struct {
	OrderIDs []int `json:"order_ids"`
}

// AdjustStock changes one product's quantity. At least one of ProductID and
// ProductName is set, and at least one of Delta and SetQuantity.
// SetQuantity wins when both are present.
type AdjustStock struct {
	ProductID   *int   `json:"product_id,omitempty"`
	ProductName string `json:"product_name,omitempty"`
	Delta       *int   `json:"delta,omitempty"`
	SetQuantity *int   `json:"set_quantity,omitempty"`
}

// IncreasePricesPercent raises prices by Percent (negative lowers them).
// Empty ProductIDs means every product.
type IncreasePricesPercent struct {
	Percent    float64 `json:"percent"`
	ProductIDs []int   `json:"product_ids,omitempty"`
}

// BroadcastPrompt opens the broadcast flow pre-filled with Message. It never sends.
type BroadcastPrompt struct {
	Message string `json:"message"`
}

// Noop does nothing; Note is passed through to the summary when set.
type Noop struct {
	Note string `json:"note,omitempty"`
}

func (Navigate) Kind() Kind              { return KindNavigate }
func (SendPaymentReminders) Kind() Kind  { return KindSendPaymentReminders }
func (AdjustStock) Kind() Kind           { return KindAdjustStock }
func (IncreasePricesPercent) Kind() Kind { return KindIncreasePricesPercent }
func (BroadcastPrompt) Kind() Kind       { return KindBroadcastPrompt }
func (Noop) Kind() Kind                  { return KindNoop }

func (Navigate) isAction()              {}
func (SendPaymentReminders) isAction()  {}
func (AdjustStock) isAction()           {}
func (IncreasePricesPercent) isAction() {}
func (BroadcastPrompt) isAction()       {}
func (Noop) isAction()                  {}
