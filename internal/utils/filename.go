package utils

import (
	"fmt"
	"strings"
)

// SanitizeFileName maps spaces to underscores and strips everything outside
// [A-Za-z0-9_-], so student names become safe archive entry names.
func SanitizeFileName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ReplaceAll(name, " ", "_") {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ReceiptEntryName builds the archive entry name for one receipt:
// Receipt_<YYYY>_<MM>_<SanitizedStudentName>_ID<record_id>.<ext>
func ReceiptEntryName(year, month int, studentName string, feeID int64, ext string) string {
	return fmt.Sprintf("Receipt_%04d_%02d_%s_ID%d.%s", year, month, SanitizeFileName(studentName), feeID, ext)
}
