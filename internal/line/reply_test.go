package line

import (
	"strings"
	"testing"

	"slipsheet/internal/pipeline"
)

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestConfirmationText_PopulatedRecord(t *testing.T) {
	rec := &pipeline.SlipRecord{
		TransactionDatetime: strPtr("2025-01-15T14:30:00"),
		Bank:                strPtr("K-Bank"),
		FromAccount:         strPtr("Somchai J."),
		Recipient:           strPtr("Malee S."),
		Amount:              floatPtr(1234.5),
		Memo:                strPtr("lunch"),
	}

	msg := ConfirmationText(rec, "https://docs.google.com/spreadsheets/d/abc/edit")

	for _, want := range []string{
		"2025-01-15T14:30:00",
		"K-Bank",
		"Somchai J.",
		"Malee S.",
		"1,234.50",
		"lunch",
		"https://docs.google.com/spreadsheets/d/abc/edit",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("confirmation missing %q:\n%s", want, msg)
		}
	}
}

func TestConfirmationText_AbsentFields(t *testing.T) {
	rec := &pipeline.SlipRecord{Bank: strPtr("SCB")}

	msg := ConfirmationText(rec, "https://example.com")

	if !strings.Contains(msg, "0.00") {
		t.Errorf("absent amount should render as 0.00:\n%s", msg)
	}
	if !strings.Contains(msg, absentPlaceholder) {
		t.Errorf("absent fields should render the placeholder:\n%s", msg)
	}
}

func TestRejectionTextIsFixed(t *testing.T) {
	if RejectionText == "" {
		t.Fatal("rejection text must not be empty")
	}
	if strings.Contains(RejectionText, "%") {
		t.Error("rejection text must be a fixed string, not a format template")
	}
}
