package model

import "time"

type DeliveryStatus string

const (
	DeliveryStatusOutForDelivery DeliveryStatus = "OUT_FOR_DELIVERY"
	DeliveryStatusFailed         DeliveryStatus = "FAILED"
	DeliveryStatusDelivered      DeliveryStatus = "DELIVERED"
	DeliveryStatusReturned       DeliveryStatus = "RETURNED"
	DeliveryStatusCancelled      DeliveryStatus = "CANCELLED"
)

// Signal is a carrier or customer signal attached to a failed attempt.
type Signal string

const (
	SignalCustomerUnavailable Signal = "CUSTOMER_UNAVAILABLE"
	SignalWrongAddress        Signal = "WRONG_ADDRESS"
	SignalPhoneUnreachable    Signal = "PHONE_UNREACHABLE"
	SignalCustomerRefused     Signal = "CUSTOMER_REFUSED"
	SignalCODNotReady         Signal = "COD_NOT_READY"
	SignalRescheduleRequested Signal = "RESCHEDULE_REQUESTED"
)

type AddressQuality string

const (
	AddressQualityGood       AddressQuality = "GOOD"
	AddressQualityUnverified AddressQuality = "UNVERIFIED"
	AddressQualityPoor       AddressQuality = "POOR"
)

type PaymentMethod string

const (
	PaymentMethodCOD     PaymentMethod = "COD"
	PaymentMethodPrepaid PaymentMethod = "PREPAID"
)

// Order is the read-only view of an order owned by the order store.
type Order struct {
	ID             string         `json:"id"`
	Code           string         `json:"code"`
	CustomerName   string         `json:"customer_name"`
	CustomerPhone  string         `json:"customer_phone"`
	CustomerEmail  string         `json:"customer_email"`
	Address        string         `json:"address"`
	AddressQuality AddressQuality `json:"address_quality"`
	PaymentMethod  PaymentMethod  `json:"payment_method"`
	CODAmount      float64        `json:"cod_amount"`
}

// Delivery is the read-only view of a shipment.
type Delivery struct {
	ID             string         `json:"id"`
	OrderID        string         `json:"order_id"`
	Carrier        string         `json:"carrier"`
	TrackingNumber string         `json:"tracking_number"`
	Status         DeliveryStatus `json:"status"`
	AttemptCount   int            `json:"attempt_count"`
	LastAttemptAt  *time.Time     `json:"last_attempt_at,omitempty"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// DeliveryAttemptContext is everything the rule engine needs about one delivery.
type DeliveryAttemptContext struct {
	DeliveryID        string         `json:"delivery_id"`
	OrderID           string         `json:"order_id"`
	Status            DeliveryStatus `json:"status"`
	AttemptCount      int            `json:"attempt_count"`
	LastAttemptAt     time.Time      `json:"last_attempt_at"`
	Signals           []Signal       `json:"signals"`
	AddressQuality    AddressQuality `json:"address_quality"`
	CustomerConfirmed bool           `json:"customer_confirmed"`
}

func (c DeliveryAttemptContext) HasSignal(s Signal) bool {
	for _, v := range c.Signals {
		if v == s {
			return true
		}
	}
	return false
}

// Cleared reports whether the failure no longer needs handling.
func (c DeliveryAttemptContext) Cleared() bool {
	return c.Status == DeliveryStatusDelivered || c.CustomerConfirmed
}
