package models

import "time"

type DeliveryStatus string

const (
	DeliveryCompleted DeliveryStatus = "completed"
	DeliveryPartial   DeliveryStatus = "partial"
	DeliveryFailed    DeliveryStatus = "failed"
)

func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryCompleted, DeliveryPartial, DeliveryFailed:
		return true
	}
	return false
}

// DeliveryConfirmation records the hand-over of an order. The customer
// signature image lives in object storage under SignatureKey; SignatureURL
// is a short-lived download link filled in on read.
type DeliveryConfirmation struct {
	ID                string         `json:"id"`
	OrderID           string         `json:"orderId"`
	DeliveredQuantity float64        `json:"deliveredQuantity"`
	OrderedQuantity   float64        `json:"orderedQuantity"`
	DeliveryNotes     *string        `json:"deliveryNotes"`
	DeliveredBy       string         `json:"deliveredBy"`
	DeliveryDate      time.Time      `json:"deliveryDate"`
	SignatureKey      *string        `json:"-"`
	SignatureURL      string         `json:"signatureUrl,omitempty"`
	Status            DeliveryStatus `json:"deliveryStatus"`
	CreatedAt         time.Time      `json:"createdAt"`
}
