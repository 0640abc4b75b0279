package worker

// stock_alert_cron.go
// Background goroutine that periodically scans inventory records whose
// quantity fell below min_stock and enqueues alert emails to the outlet's
// alert address. A redis SETNX key per (product, outlet, day) deduplicates:
// each shortage is reported at most once per day.

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/RenzoLenes/pos-saas-monorepo-sub001/internal/repository"
)

const (
	stockAlertTickInterval = 5 * time.Minute
	stockAlertDedupTTL     = 24 * time.Hour
)

// StockAlertCronConfig holds all dependencies for the alert goroutine.
type StockAlertCronConfig struct {
	Inventories   repository.InventoryRepository
	Outlets       repository.OutletRepository
	Dispatcher    *Dispatcher
	RDB           *redis.Client
	FallbackEmail string // used when the outlet has no alert address
}

// StartStockAlertCron launches the background scan. It respects the context
// for graceful shutdown.
func StartStockAlertCron(ctx context.Context, cfg StockAlertCronConfig) {
	go func() {
		ticker := time.NewTicker(stockAlertTickInterval)
		defer ticker.Stop()

		log.Info().Msg("stock_alert_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("stock_alert_cron: shutting down")
				return
			case <-ticker.C:
				scanLowStock(ctx, cfg)
			}
		}
	}()
}

func scanLowStock(ctx context.Context, cfg StockAlertCronConfig) {
	invs, err := cfg.Inventories.ListBelowMin(ctx)
	if err != nil {
		log.Error().Err(err).Msg("stock_alert_cron: scan failed")
		return
	}

	day := time.Now().UTC().Format("20060102")
	for _, inv := range invs {
		dedupKey := fmt.Sprintf("stockalert:%s:%s:%s", inv.ProductID, inv.OutletID, day)
		set, err := cfg.RDB.SetNX(ctx, dedupKey, 1, stockAlertDedupTTL).Result()
		if err != nil || !set {
			continue // already alerted today, or redis unavailable
		}

		to := cfg.FallbackEmail
		if outlet, err := cfg.Outlets.FindByID(ctx, inv.OutletID); err == nil && outlet.AlertEmail != nil {
			to = *outlet.AlertEmail
		}
		if to == "" {
			continue
		}

		name := inv.ProductID.String()
		if inv.Product != nil {
			name = inv.Product.Name
		}
		minStock := 0
		if inv.MinStock != nil {
			minStock = *inv.MinStock
		}
		payload := EmailJobPayload{
			ToEmail: to,
			Subject: fmt.Sprintf("Low stock: %s", name),
			Body: fmt.Sprintf("Product %q is down to %d units at outlet %s (minimum %d).",
				name, inv.Quantity, inv.OutletID, minStock),
		}
		if err := cfg.Dispatcher.EnqueueEmail(ctx, payload); err != nil {
			log.Error().Err(err).Str("product", name).Msg("stock_alert_cron: enqueue failed")
		}
	}
}
