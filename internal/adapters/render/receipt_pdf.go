// Package render produces receipt documents for the bulk export pipeline.
package render

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/campusbooks/school_admin_app/internal/core/domain"
	portssvc "github.com/campusbooks/school_admin_app/internal/core/ports/services"
	"github.com/jung-kurt/gofpdf"
)

// PDFReceiptRenderer renders one fee record to an A4 PDF receipt.
type PDFReceiptRenderer struct {
	SchoolName    string
	SchoolAddress string
}

// NewPDFReceiptRenderer creates a renderer with the school letterhead.
func NewPDFReceiptRenderer(schoolName, schoolAddress string) portssvc.ReceiptRenderer {
	return &PDFReceiptRenderer{SchoolName: schoolName, SchoolAddress: schoolAddress}
}

var _ portssvc.ReceiptRenderer = (*PDFReceiptRenderer)(nil)

// RenderReceipt renders the joined ledger row into PDF bytes.
func (r *PDFReceiptRenderer) RenderReceipt(_ context.Context, row domain.FeeRecordWithStudent) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Letterhead
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 8, r.SchoolName)
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 5, r.SchoolAddress)
	pdf.Ln(4)
	pdf.SetDrawColor(40, 145, 108)
	pdf.SetLineWidth(0.5)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "MONTHLY FEE RECEIPT")
	pdf.Ln(12)

	period := fmt.Sprintf("%s %d", time.Month(row.FeeMonth).String(), row.FeeYear)
	labelled := func(label, value string) {
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(45, 6, label)
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, value)
		pdf.Ln(5)
	}

	labelled("Receipt No:", fmt.Sprintf("%d", row.FeeID))
	labelled("Student:", row.Student.Name)
	labelled("Class:", row.Student.ClassName)
	labelled("Period:", period)
	pdf.Ln(4)

	// Charge breakdown
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, "CHARGES")
	pdf.Ln(1)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.3)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(5)

	amountLine := func(label string, amount string) {
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(90, 6, label)
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(40, 6, amount, "", 0, "R", false, 0, "")
		pdf.Ln(5)
	}

	amountLine("Base fee", row.BaseFee.StringFixed(2))
	amountLine("Van fee", row.VanFee.StringFixed(2))
	amountLine("Exam fee", row.ExamFee.StringFixed(2))
	amountLine("Electricity fee", row.ElectricityFee.StringFixed(2))
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(90, 6, "Total due")
	pdf.CellFormat(40, 6, row.AmountDue.StringFixed(2), "", 0, "R", false, 0, "")
	pdf.Ln(6)
	pdf.Cell(90, 6, "Amount paid")
	pdf.CellFormat(40, 6, row.AmountPaid.StringFixed(2), "", 0, "R", false, 0, "")
	pdf.Ln(6)
	pdf.Cell(90, 6, "Balance")
	pdf.CellFormat(40, 6, domain.RemainingBalance(row.MonthlyFeeRecord).StringFixed(2), "", 0, "R", false, 0, "")
	pdf.Ln(10)

	status := domain.ComputeStatus(row.MonthlyFeeRecord)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(45, 6, "Status:")
	pdf.Cell(0, 6, string(status))
	pdf.Ln(5)
	if row.PaymentDate != nil {
		labelled("Payment date:", row.PaymentDate.Format("2006-01-02"))
	}
	if row.Notes != "" {
		labelled("Notes:", row.Notes)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output failed for fee record %d: %w", row.FeeID, err)
	}
	return buf.Bytes(), nil
}
