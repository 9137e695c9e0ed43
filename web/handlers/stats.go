package handlers

import (
	"context"
	"log"
	"time"

	"github.com/fieldpulse/fieldpulse/internal/warehouse"
)

// statsMessage is the envelope broadcast over the live stats socket.
type statsMessage struct {
	Type string   `json:"type"`
	Data HomeKPIs `json:"data"`
}

// StartKPITicker periodically recomputes the 30-day home KPIs and broadcasts
// them to every connected dashboard. It returns immediately and stops when
// ctx is cancelled. An interval of zero or less disables broadcasting.
func StartKPITicker(ctx context.Context, wh *warehouse.Warehouse, hub *StatsHub, interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				dr := warehouse.ParseDateFilter("30", time.Now())
				kpis, err := FetchKPIs(ctx, wh, dr)
				if err != nil {
					log.Printf("KPI broadcast skipped: %v", err)
					continue
				}
				hub.Broadcast(statsMessage{Type: "kpis", Data: kpis})

			case <-ctx.Done():
				return
			}
		}
	}()
}
