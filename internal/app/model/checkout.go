package model

import (
	"strings"
	"time"
)

type CheckoutStep string

// The checkout wizard is an explicit state machine. A session is either
// filling the shipping form, choosing a payment method, done (COD), or gone
// off to a hosted-payment page. Terminal outcomes of gateway payments are
// observed by the return handlers, never by the wizard itself.
const (
	StepShipping    CheckoutStep = "shipping"
	StepPayment     CheckoutStep = "payment"
	StepPlaced      CheckoutStep = "placed"
	StepRedirecting CheckoutStep = "redirecting"
)

type PaymentMethod string

const (
	MethodCOD   PaymentMethod = "cod"
	MethodMomo  PaymentMethod = "momo"
	MethodVnpay PaymentMethod = "vnpay"
)

// ValidPaymentMethod reports whether m is one of the supported methods
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case MethodCOD, MethodMomo, MethodVnpay:
		return true
	}
	return false
}

// ShippingInfo is the first checkout step's form data
type ShippingInfo struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
}

// MissingFields returns the required fields that are blank. Presence is the
// only validation the form does; formats are not checked.
func (s ShippingInfo) MissingFields() map[string]string {
	fields := map[string]string{}
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			fields[name] = "required"
		}
	}
	check("name", s.Name)
	check("email", s.Email)
	check("address", s.Address)
	check("city", s.City)
	check("province", s.Province)
	check("postal_code", s.PostalCode)
	check("phone", s.Phone)
	return fields
}

// CheckoutState is the per-session wizard snapshot
type CheckoutState struct {
	Step      CheckoutStep  `json:"step"`
	Shipping  *ShippingInfo `json:"shipping,omitempty"`
	Method    PaymentMethod `json:"method,omitempty"`
	OrderID   string        `json:"order_id,omitempty"`
	PayURL    string        `json:"pay_url,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
