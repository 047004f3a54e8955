package pipeline

import (
	"strconv"
	"strings"
	"time"
)

const (
	slipDatetimeLayout = "2006-01-02 15:04"
	isoDatetimeLayout  = "2006-01-02T15:04:05"
)

// Earlier revisions of the extraction prompt used drifting field names.
// The transform accepts those aliases so old prompt files keep working,
// but everything is mapped onto the canonical SlipRecord fields.
var fieldAliases = map[string][]string{
	"transaction_datetime": {"transaction_datetime", "date"},
	"bank":                 {"bank"},
	"from_account":         {"from_account", "sender"},
	"recipient":            {"recipient", "recipient_name"},
	"amount":               {"amount"},
	"memo":                 {"memo", "transaction_id"},
}

// recordFromModelOutput coerces the untrusted model output into a
// SlipRecord. Every field is validated independently and fails soft: a
// value of the wrong type, or an unparseable datetime, drops that one field
// to nil and never fails the whole record.
func recordFromModelOutput(raw map[string]interface{}) *SlipRecord {
	rec := &SlipRecord{
		Bank:        aliasedString(raw, "bank"),
		FromAccount: aliasedString(raw, "from_account"),
		Recipient:   aliasedString(raw, "recipient"),
		Memo:        aliasedString(raw, "memo"),
		Amount:      aliasedAmount(raw, "amount"),
	}

	if dt := aliasedString(raw, "transaction_datetime"); dt != nil {
		if normalized, ok := normalizeDatetime(*dt); ok {
			rec.TransactionDatetime = &normalized
		}
	}

	return rec
}

func aliasedString(m map[string]interface{}, canonical string) *string {
	for _, key := range fieldAliases[canonical] {
		if s := optionalString(m, key); s != nil {
			return s
		}
	}
	return nil
}

func aliasedAmount(m map[string]interface{}, canonical string) *float64 {
	for _, key := range fieldAliases[canonical] {
		if f := optionalAmount(m, key); f != nil {
			return f
		}
	}
	return nil
}

func optionalString(m map[string]interface{}, key string) *string {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// optionalAmount reads a numeric field. The prompt forbids string amounts,
// but the model cannot be trusted to honor that, so numeric strings
// (including "1,234.50") are coerced rather than dropped.
func optionalAmount(m map[string]interface{}, key string) *float64 {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	switch val := v.(type) {
	case float64:
		f := val
		return &f
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(val), ",", "")
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// normalizeDatetime parses the model's "YYYY-MM-DD HH:MM" value, converts a
// Thai Buddhist year to Gregorian when the model skipped that step, and
// returns the canonical ISO form. The reported ok is false when the value
// does not parse; callers drop the field rather than the record.
func normalizeDatetime(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	for _, layout := range []string{slipDatetimeLayout, isoDatetimeLayout, "2006-01-02"} {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		// Buddhist calendar years run 543 ahead of Gregorian.
		if t.Year() >= 2400 {
			t = t.AddDate(-543, 0, 0)
		}
		return t.Format(isoDatetimeLayout), true
	}
	return "", false
}
