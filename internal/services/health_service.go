package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"cryptopulse/internal/store"
)

// Pinger is implemented by stores that can verify their backing
// connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	store     store.Store
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(version string, st store.Store, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		store:     st,
		startTime: time.Now(),
		logger:    logger,
	}
}

// Check reports overall application health. The status degrades to
// "unhealthy" when the database is unreachable.
func (s *HealthService) Check(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   s.version,
		Runtime: map[string]interface{}{
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
			"uptime":     time.Since(s.startTime).String(),
		},
		Services: map[string]interface{}{},
	}

	db := ServiceHealth{Status: "healthy"}
	if pinger, ok := s.store.(Pinger); ok {
		if err := pinger.Ping(ctx); err != nil {
			s.logger.ErrorContext(ctx, "database health check failed", "error", err)
			db = ServiceHealth{Status: "unhealthy", Message: err.Error()}
			status.Status = "unhealthy"
		}
	}
	status.Services["database"] = db

	return status
}
