package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EventSure/riskmesh-sub000/relayer/store"
)

func TestDB_OpenModes(t *testing.T) {
	t.Run("in-memory alias", func(t *testing.T) {
		db, err := OpenInMemoryDB(true)
		require.NoError(t, err)
		require.NotNil(t, db)

		runSampleInsertSelectTest(t, db)
		assert.NoError(t, db.Close())
	})

	t.Run("file-based DB", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "data")
		dbName := "relayer.db"

		db, err := OpenFileDB(dir, dbName, true)
		require.NoError(t, err)
		require.NotNil(t, db)

		assert.FileExists(t, filepath.Join(dir, dbName))

		runSampleInsertSelectTest(t, db)

		assert.NoError(t, db.Close())
	})

	t.Run("without migration tables are missing", func(t *testing.T) {
		db, err := OpenInMemoryDB(false)
		require.NoError(t, err)
		defer db.Close()

		assert.False(t, db.Client().Migrator().HasTable(&store.LedgerEvent{}))
	})
}

func TestDB_ObservationRoundIsUnique(t *testing.T) {
	db, err := OpenInMemoryDB(true)
	require.NoError(t, err)
	defer db.Close()

	obs := store.Observation{Feed: "KE701@1767225600", Round: 1, DelayMinutes: 130}
	require.NoError(t, db.Client().Create(&obs).Error)

	dup := store.Observation{Feed: "KE701@1767225600", Round: 1, DelayMinutes: 0}
	require.Error(t, db.Client().Create(&dup).Error)
}

func runSampleInsertSelectTest(t *testing.T, db *DB) {
	entry := store.LedgerEvent{
		Height:     10101,
		Type:       "policy_state_changed",
		Subject:    "riskmesh1policy",
		Attributes: []byte(`{"to":"Active"}`),
	}

	err := db.Client().Create(&entry).Error
	require.NoError(t, err)

	var result store.LedgerEvent
	err = db.Client().First(&result).Error
	require.NoError(t, err)
	assert.Equal(t, int64(10101), result.Height)
	assert.Equal(t, "riskmesh1policy", result.Subject)
}
