package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/momenTUM-research-platform/momenTUM-designer/internal/providers"
	"github.com/momenTUM-research-platform/momenTUM-designer/internal/services"
)

type HealthController struct {
	store     providers.StoreInterface
	delivery  services.DeliveryServiceInterface
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Database      string  `json:"database"`
	QueueDepth    int     `json:"queue_depth"`
	Accepted      int64   `json:"accepted"`
	Forwarded     int64   `json:"forwarded"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	database := "ok"
	if err := hc.store.Ping(ctx); err != nil {
		status = http.StatusServiceUnavailable
		database = "unreachable"
	}

	uptime := time.Since(hc.startTime)
	stats := hc.delivery.Stats()
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Database:      database,
		QueueDepth:    stats.QueueDepth,
		Accepted:      stats.Accepted,
		Forwarded:     stats.Forwarded,
	}
	if status != http.StatusOK {
		resp.Status = "degraded"
	}
	writeJSON(w, status, resp)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(store providers.StoreInterface, delivery services.DeliveryServiceInterface) *HealthController {
	return &HealthController{
		store:     store,
		delivery:  delivery,
		startTime: time.Now(),
	}
}
