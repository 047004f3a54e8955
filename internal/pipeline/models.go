package pipeline

// SlipRecord is the canonical result of extracting one transfer slip image.
// Every field is a pointer so an unreadable value marshals as an explicit
// JSON null instead of being omitted; downstream consumers rely on all six
// keys always being present.
type SlipRecord struct {
	TransactionDatetime *string  `json:"transaction_datetime"` // YYYY-MM-DDTHH:MM:SS, Gregorian
	Bank                *string  `json:"bank"`
	FromAccount         *string  `json:"from_account"`
	Recipient           *string  `json:"recipient"`
	Amount              *float64 `json:"amount"`
	Memo                *string  `json:"memo"`
}

// IsEmpty reports whether no field could be read from the slip. An empty
// record means the image was rejected: it never reaches the spreadsheet.
func (r *SlipRecord) IsEmpty() bool {
	return r.TransactionDatetime == nil &&
		r.Bank == nil &&
		r.FromAccount == nil &&
		r.Recipient == nil &&
		r.Amount == nil &&
		r.Memo == nil
}

// Row maps the record to one spreadsheet row. The column order is a
// deployment-time contract with the target sheet's header layout:
// timestamp, sender/account, bank, recipient, amount, memo.
func (r *SlipRecord) Row() []interface{} {
	return []interface{}{
		cellString(r.TransactionDatetime),
		cellString(r.FromAccount),
		cellString(r.Bank),
		cellString(r.Recipient),
		cellFloat(r.Amount),
		cellString(r.Memo),
	}
}

func cellString(s *string) interface{} {
	if s == nil {
		return ""
	}
	return *s
}

func cellFloat(f *float64) interface{} {
	if f == nil {
		return ""
	}
	return *f
}
