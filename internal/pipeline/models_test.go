package pipeline

import (
	"encoding/json"
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestSlipRecordIsEmpty(t *testing.T) {
	if !(&SlipRecord{}).IsEmpty() {
		t.Error("zero record should be empty")
	}

	rec := &SlipRecord{Amount: floatPtr(10)}
	if rec.IsEmpty() {
		t.Error("record with an amount should not be empty")
	}
}

func TestSlipRecordRow(t *testing.T) {
	rec := &SlipRecord{
		TransactionDatetime: strPtr("2025-01-15T14:30:00"),
		Bank:                strPtr("SCB"),
		FromAccount:         strPtr("Somchai J."),
		Recipient:           strPtr("Malee S."),
		Amount:              floatPtr(250.75),
		Memo:                strPtr("rent"),
	}

	row := rec.Row()
	want := []interface{}{"2025-01-15T14:30:00", "Somchai J.", "SCB", "Malee S.", 250.75, "rent"}

	if len(row) != len(want) {
		t.Fatalf("row has %d cells, want %d", len(row), len(want))
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("row[%d] = %v, want %v", i, row[i], want[i])
		}
	}
}

func TestSlipRecordRowAbsentValues(t *testing.T) {
	row := (&SlipRecord{Bank: strPtr("TTB")}).Row()

	// Absent values become blank cells, never nils.
	for i, cell := range row {
		if cell == nil {
			t.Errorf("row[%d] is nil, want a blank cell", i)
		}
	}
	if row[2] != "TTB" {
		t.Errorf("bank column = %v, want TTB", row[2])
	}
	if row[4] != "" {
		t.Errorf("absent amount column = %v, want blank", row[4])
	}
}

func TestSlipRecordJSONAlwaysHasAllKeys(t *testing.T) {
	out, err := json.Marshal(&SlipRecord{Bank: strPtr("K-Bank")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	for _, key := range []string{"transaction_datetime", "bank", "from_account", "recipient", "amount", "memo"} {
		if !strings.Contains(string(out), `"`+key+`"`) {
			t.Errorf("marshaled record missing key %q: %s", key, out)
		}
	}
	if !strings.Contains(string(out), `"amount":null`) {
		t.Errorf("absent amount should marshal as null: %s", out)
	}
}
