//go:build unit

package snapshot_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"lab-booking/internal/infra/snapshot"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_SaveLoad(t *testing.T) {
	dir := t.TempDir()
	file := snapshot.NewFile(filepath.Join(dir, "Data", "bookings.json"))

	want := []snapshot.Record{
		{ID: uuid.New(), DayKey: "2024-06-05", Slot: "08~12", Name: "王小明", CreatedAt: time.Date(2024, 6, 5, 2, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), DayKey: "2024-06-06", Slot: "22以後", Name: "Alice", CreatedAt: time.Date(2024, 6, 5, 3, 0, 0, 0, time.UTC)},
	}
	require.NoError(t, file.Save(want))

	got, err := file.Load()
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}

	entries, err := os.ReadDir(filepath.Dir(file.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestFile_SaveEmptyWritesArray(t *testing.T) {
	file := snapshot.NewFile(filepath.Join(t.TempDir(), "bookings.json"))
	require.NoError(t, file.Save(nil))

	data, err := os.ReadFile(file.Path())
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestFile_Load(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		records, err := snapshot.NewFile(filepath.Join(t.TempDir(), "missing.json")).Load()
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bookings.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"id":`), 0o600))

		_, err := snapshot.NewFile(path).Load()
		assert.ErrorIs(t, err, snapshot.ErrMalformed)
	})

	t.Run("uses camelCase field names", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bookings.json")
		doc := `[{"id":"6f1c1c57-7a0b-4f55-9d1c-111111111111","dayKey":"2024-06-05","slot":"13~17","name":"Bob","createdAt":"2024-06-05T01:02:03Z"}]`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

		records, err := snapshot.NewFile(path).Load()
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "2024-06-05", records[0].DayKey)
		assert.Equal(t, "13~17", records[0].Slot)
		assert.Equal(t, "Bob", records[0].Name)
		assert.True(t, records[0].CreatedAt.Equal(time.Date(2024, 6, 5, 1, 2, 3, 0, time.UTC)))
	})
}
