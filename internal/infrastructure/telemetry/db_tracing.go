package telemetry

import (
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/gorm"

	"github.com/markethub/backend/internal/infrastructure/config"
)

// EnableDBTracing registers the otelgorm plugin so every GORM operation
// produces a span carrying the SQL statement and table. A no-op when
// telemetry or DB tracing is disabled.
func EnableDBTracing(db *gorm.DB, cfg config.TelemetryConfig) error {
	if !cfg.Enabled || !cfg.DBTraceEnabled {
		return nil
	}

	return db.Use(otelgorm.NewPlugin(
		otelgorm.WithDBName("markethub"),
	))
}
