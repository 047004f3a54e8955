package line

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"slipsheet/internal/pipeline"
)

// RejectionText is pushed when nothing could be read from the image.
const RejectionText = "ไม่สามารถประมวลผลรูปภาพได้ กรุณาตรวจสอบว่าเป็นสลิปโอนเงินที่ชัดเจนหรือไม่ แล้วลองใหม่อีกครั้งครับ"

// absentPlaceholder substitutes for a field the model could not read.
const absentPlaceholder = "-"

var amountPrinter = message.NewPrinter(language.Thai)

// ConfirmationText renders the human-readable summary pushed after a slip
// row has been recorded. Absent fields show a dash, an absent amount shows
// 0.00, and the sheet URL footer links to the stored data.
func ConfirmationText(rec *pipeline.SlipRecord, sheetURL string) string {
	var b strings.Builder
	b.WriteString("บันทึกข้อมูลสลิปเรียบร้อยแล้วครับ ✨\n\n")
	b.WriteString(fmt.Sprintf("🗓️ วันที่-เวลา: %s\n", orPlaceholder(rec.TransactionDatetime)))
	b.WriteString(fmt.Sprintf("👤 จากบัญชี: %s\n", orPlaceholder(rec.FromAccount)))
	b.WriteString(fmt.Sprintf("🏦 ธนาคาร: %s\n", orPlaceholder(rec.Bank)))
	b.WriteString(fmt.Sprintf("➡️ ผู้รับ: %s\n", orPlaceholder(rec.Recipient)))
	b.WriteString(fmt.Sprintf("💰 จำนวนเงิน: %s บาท\n", formatAmount(rec.Amount)))
	b.WriteString(fmt.Sprintf("📝 บันทึกช่วยจำ: %s\n\n", orPlaceholder(rec.Memo)))
	b.WriteString(fmt.Sprintf("📄 ดูข้อมูลทั้งหมดใน Sheet:\n%s", sheetURL))
	return b.String()
}

func orPlaceholder(s *string) string {
	if s == nil {
		return absentPlaceholder
	}
	return *s
}

func formatAmount(f *float64) string {
	if f == nil {
		return "0.00"
	}
	// Thousands-separated, two decimals, e.g. 1,234.50.
	return amountPrinter.Sprintf("%.2f", *f)
}
