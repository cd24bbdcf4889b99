// Package settingsstore keeps device-local configuration in an embedded pebble database.
package settingsstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/pebble"
	"github.com/sangkips/mscheesy-pos/internal/domain/entity"
	"github.com/sangkips/mscheesy-pos/internal/domain/repository"
)

// PrinterSettingsKey is the fixed key the printer settings blob is stored under.
const PrinterSettingsKey = "printer-settings"

// PebbleStore implements repository.PrinterSettingsRepository.
type PebbleStore struct {
	db *pebble.DB
}

var _ repository.PrinterSettingsRepository = (*PebbleStore)(nil)

// Open opens or creates the store in dir.
func Open(dir string) (*PebbleStore, error) {
	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	return &PebbleStore{db: db}, nil
}

func (p *PebbleStore) Close() error { return p.db.Close() }

func (p *PebbleStore) Get(_ context.Context) (entity.PrinterSettings, error) {
	v, closer, err := p.db.Get([]byte(PrinterSettingsKey))
	if errors.Is(err, pebble.ErrNotFound) {
		return entity.DefaultPrinterSettings(), nil
	}
	if err != nil {
		return entity.PrinterSettings{}, err
	}
	defer closer.Close()

	settings := entity.DefaultPrinterSettings()
	if err := json.Unmarshal(v, &settings); err != nil {
		return entity.PrinterSettings{}, fmt.Errorf("decode printer settings: %w", err)
	}
	return settings, nil
}

func (p *PebbleStore) Save(_ context.Context, settings entity.PrinterSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return p.db.Set([]byte(PrinterSettingsKey), raw, pebble.Sync)
}
