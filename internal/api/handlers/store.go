package handlers

import (
	"time"

	"premium-calc/internal/rates"
)

// RateStore is the rate repository holder the handlers read from.
type RateStore interface {
	Current() *rates.Repository
	Reload() error
	LoadedAt() time.Time
	Dir() string
}
