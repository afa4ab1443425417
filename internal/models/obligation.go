// Package models defines the core domain types.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Frequency describes how often an obligation recurs.
type Frequency string

const (
	FrequencyOneTime Frequency = "one_time"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// ParseFrequency converts user input into a Frequency. Accepts the
// canonical names plus common aliases, case-insensitively.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "one_time", "one-time", "once":
		return FrequencyOneTime, nil
	case "weekly":
		return FrequencyWeekly, nil
	case "monthly":
		return FrequencyMonthly, nil
	case "yearly", "annual", "annually":
		return FrequencyYearly, nil
	default:
		return "", fmt.Errorf("unknown frequency %q (want one_time, weekly, monthly or yearly)", s)
	}
}

// IsRecurring reports whether due dates advance by calendar arithmetic.
// Weekly obligations repeat through their notification trigger instead.
func (f Frequency) IsRecurring() bool {
	return f == FrequencyMonthly || f == FrequencyYearly
}

// Obligation is a tracked payment or deadline. NotificationHandle is the
// gateway handle of its scheduled notification; empty means nothing is
// scheduled.
type Obligation struct {
	ID                 string
	Title              string
	Amount             decimal.NullDecimal
	Currency           string
	DueAt              time.Time
	Frequency          Frequency
	Notes              string
	NotificationHandle string
	CreatedAt          time.Time
}

func (o Obligation) Validate() error {
	if strings.TrimSpace(o.Title) == "" {
		return fmt.Errorf("title cannot be empty")
	}
	if len(o.Currency) != 3 {
		return fmt.Errorf("currency must be a 3-letter code, got %q", o.Currency)
	}
	switch o.Frequency {
	case FrequencyOneTime, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
	default:
		return fmt.Errorf("invalid frequency %q", o.Frequency)
	}
	if o.Amount.Valid && o.Amount.Decimal.IsNegative() {
		return fmt.Errorf("amount cannot be negative")
	}
	if o.DueAt.IsZero() {
		return fmt.Errorf("due date is required")
	}
	return nil
}

// HasAmount reports whether an amount is tracked for this obligation.
func (o Obligation) HasAmount() bool {
	return o.Amount.Valid
}

// FormatAmount renders the amount with two decimal places and the
// currency code, e.g. "1250.50 USD". Empty when no amount is tracked.
func (o Obligation) FormatAmount() string {
	if !o.Amount.Valid {
		return ""
	}
	return o.Amount.Decimal.StringFixed(2) + " " + o.Currency
}
