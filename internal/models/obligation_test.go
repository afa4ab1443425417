package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validObligation() Obligation {
	return Obligation{
		ID:        "ob-1",
		Title:     "Rent",
		Amount:    decimal.NewNullDecimal(decimal.NewFromInt(1200)),
		Currency:  "USD",
		DueAt:     time.Date(2026, time.March, 1, 9, 0, 0, 0, time.Local),
		Frequency: FrequencyMonthly,
		CreatedAt: time.Now(),
	}
}

func TestParseFrequency(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Frequency
		wantErr bool
	}{
		{"canonical one_time", "one_time", FrequencyOneTime, false},
		{"hyphenated one-time", "one-time", FrequencyOneTime, false},
		{"once alias", "once", FrequencyOneTime, false},
		{"weekly", "weekly", FrequencyWeekly, false},
		{"monthly uppercase", "MONTHLY", FrequencyMonthly, false},
		{"yearly", "yearly", FrequencyYearly, false},
		{"annual alias", "annual", FrequencyYearly, false},
		{"surrounding whitespace", "  monthly  ", FrequencyMonthly, false},
		{"unknown", "fortnightly", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFrequency(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFrequency(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFrequency(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFrequencyIsRecurring(t *testing.T) {
	if FrequencyOneTime.IsRecurring() {
		t.Error("one_time should not be recurring")
	}
	if FrequencyWeekly.IsRecurring() {
		t.Error("weekly should not be recurring, it repeats via its trigger")
	}
	if !FrequencyMonthly.IsRecurring() {
		t.Error("monthly should be recurring")
	}
	if !FrequencyYearly.IsRecurring() {
		t.Error("yearly should be recurring")
	}
}

func TestObligationValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Obligation)
		wantErr bool
	}{
		{"valid", func(o *Obligation) {}, false},
		{"no amount is valid", func(o *Obligation) { o.Amount = decimal.NullDecimal{} }, false},
		{"empty title", func(o *Obligation) { o.Title = "" }, true},
		{"whitespace title", func(o *Obligation) { o.Title = "   " }, true},
		{"bad currency", func(o *Obligation) { o.Currency = "US" }, true},
		{"bad frequency", func(o *Obligation) { o.Frequency = "fortnightly" }, true},
		{"negative amount", func(o *Obligation) {
			o.Amount = decimal.NewNullDecimal(decimal.NewFromInt(-5))
		}, true},
		{"zero due date", func(o *Obligation) { o.DueAt = time.Time{} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := validObligation()
			tt.mutate(&o)
			if err := o.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	o := validObligation()
	o.Amount = decimal.NewNullDecimal(decimal.NewFromFloat(1250.5))
	if got := o.FormatAmount(); got != "1250.50 USD" {
		t.Errorf("FormatAmount() = %q, want 1250.50 USD", got)
	}

	o.Amount = decimal.NullDecimal{}
	if got := o.FormatAmount(); got != "" {
		t.Errorf("FormatAmount() = %q, want empty", got)
	}
	if o.HasAmount() {
		t.Error("HasAmount() = true, want false")
	}
}
