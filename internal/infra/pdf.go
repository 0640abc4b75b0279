package infra

// pdf.go — thermal receipt-style PDF generation using go-pdf/fpdf.
// Layout: store header, sale number and timestamp, item table, discount line
// when present, bold total, payment breakdown with change.
// The output file is saved to storagePath/receipt_{saleNumber}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/model"
)

// GenerateReceiptPDF renders a PDF receipt for a completed Sale and returns
// the absolute path to the generated file.
func GenerateReceiptPDF(sale *model.Sale, storeName, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("receipt_%s.pdf", sale.SaleNumber)
	filePath := filepath.Join(storagePath, fileName)

	// 74mm × 105mm — close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, storeName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, sale.SaleNumber, "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 4, sale.CreatedAt.Format(time.RFC1123), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Items ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW*0.5, 4, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.15, 4, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(contentW*0.35, 4, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, item := range sale.Items {
		pdf.CellFormat(contentW*0.5, 4, item.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.15, 4, fmt.Sprintf("%d", item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(contentW*0.35, 4, item.LineTotal.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.Ln(1)

	// ── Totals ───────────────────────────────────────────────────────────────
	if sale.DiscountAmount.IsPositive() {
		pdf.CellFormat(contentW*0.65, 4, "Subtotal", "T", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.35, 4, sale.Subtotal.StringFixed(2), "T", 1, "R", false, 0, "")
		pdf.CellFormat(contentW*0.65, 4, "Discount", "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.35, 4, "-"+sale.DiscountAmount.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW*0.65, 6, "TOTAL", "T", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.35, 6, sale.Total.StringFixed(2), "T", 1, "R", false, 0, "")

	// ── Payment ──────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW*0.65, 4, "Paid by "+sale.PaymentMethod, "", 1, "L", false, 0, "")
	if sale.CashReceived != nil {
		pdf.CellFormat(contentW*0.65, 4, "Cash", "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.35, 4, sale.CashReceived.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if sale.CardAmount != nil {
		pdf.CellFormat(contentW*0.65, 4, "Card", "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.35, 4, sale.CardAmount.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if sale.Change != nil {
		pdf.CellFormat(contentW*0.65, 4, "Change", "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.35, 4, sale.Change.StringFixed(2), "", 1, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}
