package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionType values of subscriptions.type.
type SubscriptionType string

const (
	SubscriptionMonthly SubscriptionType = "MENSUEL"
	SubscriptionYearly  SubscriptionType = "ANNUEL"
)

var (
	monthlyPrice = decimal.NewFromInt(650)
	yearlyPrice  = decimal.NewFromInt(8000)
)

// Valid reports whether t is a known plan.
func (t SubscriptionType) Valid() bool {
	return t == SubscriptionMonthly || t == SubscriptionYearly
}

// DefaultPrice is the list price used when a subscription is created
// without an explicit positive price.
func (t SubscriptionType) DefaultPrice() decimal.Decimal {
	if t == SubscriptionYearly {
		return yearlyPrice
	}
	return monthlyPrice
}

// EndDate computes the last day covered by a plan starting at start.
func (t SubscriptionType) EndDate(start Date) Date {
	if t == SubscriptionYearly {
		return start.AddYears(1)
	}
	return start.AddMonths(1)
}

// Subscription mirrors the subscriptions table (abonnements).
type Subscription struct {
	ID        uint64
	UserID    uint64
	SpaceID   uint64
	Type      SubscriptionType
	Price     decimal.Decimal
	Start     Date
	End       Date
	PaymentID *uint64
	CreatedAt time.Time
}

// ActiveOn reports whether day lies within [Start, End].
func (s Subscription) ActiveOn(day Date) bool {
	return !day.Before(s.Start.Time) && !day.After(s.End.Time)
}

// SubscriptionDetail adds the user email and space name for responses.
type SubscriptionDetail struct {
	Subscription
	UserEmail string
	SpaceName string
}
