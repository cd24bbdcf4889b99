package repository

import (
	"context"

	"github.com/sangkips/mscheesy-pos/internal/domain/entity"
)

// PrinterSettingsRepository stores the device-local printer configuration as one record.
type PrinterSettingsRepository interface {
	// Get returns the stored settings, or the defaults when nothing was saved yet.
	Get(ctx context.Context) (entity.PrinterSettings, error)
	Save(ctx context.Context, settings entity.PrinterSettings) error
}
