package worker

// receipt_worker.go
// Processes receipt jobs enqueued by the checkout service after a sale
// commits: renders the PDF ticket and, when the customer left an email,
// chains an email job carrying the attachment path.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/infra"
	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/repository"
)

// ReceiptJobPayload is the job envelope sent to QueueReceipt.
type ReceiptJobPayload struct {
	SaleID        string  `json:"sale_id"`
	CustomerEmail *string `json:"customer_email,omitempty"`
}

type ReceiptWorker struct {
	sales       repository.SaleRepository
	dispatcher  *Dispatcher
	storeName   string
	storagePath string
}

func NewReceiptWorker(sales repository.SaleRepository, dispatcher *Dispatcher, storeName, storagePath string) *ReceiptWorker {
	return &ReceiptWorker{
		sales:       sales,
		dispatcher:  dispatcher,
		storeName:   storeName,
		storagePath: storagePath,
	}
}

// Process renders the PDF and optionally chains an email job.
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return nil // malformed payloads are not retryable
	}
	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		log.Error().Str("sale_id", payload.SaleID).Msg("receipt_worker: invalid sale id")
		return nil
	}

	sale, err := w.sales.FindByID(ctx, saleID)
	if err != nil {
		return fmt.Errorf("receipt_worker: load sale %s: %w", payload.SaleID, err)
	}

	pdfPath, err := infra.GenerateReceiptPDF(sale, w.storeName, w.storagePath)
	if err != nil {
		return fmt.Errorf("receipt_worker: render: %w", err)
	}
	log.Info().Str("sale_number", sale.SaleNumber).Str("path", pdfPath).Msg("receipt_worker: receipt generated")

	if payload.CustomerEmail == nil || *payload.CustomerEmail == "" {
		return nil
	}
	return w.dispatcher.EnqueueEmail(ctx, EmailJobPayload{
		ToEmail:        *payload.CustomerEmail,
		Subject:        fmt.Sprintf("Your receipt %s", sale.SaleNumber),
		Body:           fmt.Sprintf("Thank you for your purchase. Receipt %s is attached.", sale.SaleNumber),
		AttachmentPath: pdfPath,
	})
}
