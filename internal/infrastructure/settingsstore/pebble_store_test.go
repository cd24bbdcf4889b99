package settingsstore

import (
	"context"
	"testing"

	"github.com/sangkips/mscheesy-pos/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPebbleStore_DefaultsUntilSaved(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	settings, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultPrinterSettings(), settings)
}

func TestPebbleStore_SaveSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)

	want := entity.PrinterSettings{Enabled: false, Width: 32, AutoPrint: true}
	require.NoError(t, store.Save(context.Background(), want))
	require.NoError(t, store.Close())

	reopened, err := Open(dir)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestPebbleStore_RejectsInvalidWidth(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	err = store.Save(context.Background(), entity.PrinterSettings{Enabled: true, Width: 100})
	require.Error(t, err)

	got, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 40, got.Width)
}
