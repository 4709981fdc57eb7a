package models

import (
	"time"
)

// ServiceTier selects the price multiplier for an order
type ServiceTier string

const (
	ServiceRegular ServiceTier = "regular"
	ServiceExpress ServiceTier = "express"
)

// PaymentMethod is informational only, nothing is charged
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
)

// HistoryEntry records one stage transition of an order
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	StageName string    `json:"stageName"`
	Note      string    `json:"note"`
}

// Order is one laundry order as it is persisted in the order collection.
// Price and customer fields are fixed at creation; only the stage index
// and history change afterwards.
type Order struct {
	Code                    string         `json:"code"`
	CreatedAt               time.Time      `json:"createdAt"`
	CustomerName            string         `json:"customerName"`
	Phone                   string         `json:"phone"`
	Address                 string         `json:"address"`
	ServiceTier             ServiceTier    `json:"serviceTier"`
	WeightKg                float64        `json:"weightKg"`
	IroningRequested        bool           `json:"ironingRequested"`
	StainTreatmentRequested bool           `json:"stainTreatmentRequested"`
	DeliveryRequested       bool           `json:"deliveryRequested"`
	ScheduledPickupAt       time.Time      `json:"scheduledPickupAt"`
	PaymentMethod           PaymentMethod  `json:"paymentMethod"`
	Note                    string         `json:"note"`
	TotalPrice              int64          `json:"totalPrice"`
	CurrentStageIndex       int            `json:"currentStageIndex"`
	History                 []HistoryEntry `json:"history"` // newest first
}

// StageName returns the name of the order's current stage
func (o Order) StageName() string {
	return StageName(o.CurrentStageIndex)
}

// Clone returns a deep copy so callers can't mutate stored history
func (o Order) Clone() Order {
	c := o
	if o.History != nil {
		c.History = make([]HistoryEntry, len(o.History))
		copy(c.History, o.History)
	}
	return c
}
