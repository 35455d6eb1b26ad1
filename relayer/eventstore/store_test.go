package eventstore

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/EventSure/riskmesh-sub000/relayer/db"
	"github.com/EventSure/riskmesh-sub000/relayer/store"
)

func setupTestStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	database, err := db.OpenInMemoryDB(true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return NewStore(database.Client(), zerolog.Nop()), database.Client()
}

func sampleEvents() sdk.Events {
	return sdk.Events{
		sdk.NewEvent("policy_transition",
			sdk.NewAttribute("policy", "riskmesh1policy"),
			sdk.NewAttribute("to", "Active"),
		),
		sdk.NewEvent("flight_resolved",
			sdk.NewAttribute("flight", "riskmesh1flight"),
			sdk.NewAttribute("status", "Claimable"),
		),
		sdk.NewEvent("coin_received", sdk.NewAttribute("receiver", "riskmesh1x")),
	}
}

func TestRecordEvents(t *testing.T) {
	s, _ := setupTestStore(t)

	require.NoError(t, s.RecordEvents(7, sampleEvents()))
	require.NoError(t, s.RecordEvents(8, nil))

	all, err := s.GetEvents(Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	assert.Equal(t, "riskmesh1policy", all[0].Subject)
	assert.Equal(t, "riskmesh1flight", all[1].Subject)
	assert.Empty(t, all[2].Subject)

	var attrs map[string]string
	require.NoError(t, json.Unmarshal(all[0].Attributes, &attrs))
	assert.Equal(t, "Active", attrs["to"])
}

func TestGetEvents_Filters(t *testing.T) {
	s, _ := setupTestStore(t)
	require.NoError(t, s.RecordEvents(5, sampleEvents()))
	require.NoError(t, s.RecordEvents(9, sampleEvents()))

	t.Run("by type", func(t *testing.T) {
		events, err := s.GetEvents(Filter{Type: "flight_resolved"})
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})

	t.Run("by subject and height", func(t *testing.T) {
		events, err := s.GetEvents(Filter{Subject: "riskmesh1policy", FromHeight: 6})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, int64(9), events[0].Height)
	})

	t.Run("limit", func(t *testing.T) {
		events, err := s.GetEvents(Filter{Limit: 2})
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, int64(5), events[0].Height)
	})
}

func TestSubmissions(t *testing.T) {
	s, _ := setupTestStore(t)

	require.NoError(t, s.RecordSubmission(&store.Submission{MsgType: "create_policy", Status: StatusSuccess, Height: 2, Attempts: 1}))
	require.NoError(t, s.RecordSubmission(&store.Submission{MsgType: "activate_policy", Status: StatusFailed, Attempts: 3, ErrorMsg: "too early"}))

	failed, err := s.GetSubmissions(StatusFailed, 0)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "too early", failed[0].ErrorMsg)

	all, err := s.GetSubmissions("", 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeleteOlderThan(t *testing.T) {
	s, gdb := setupTestStore(t)
	require.NoError(t, s.RecordEvents(1, sampleEvents()))
	require.NoError(t, s.RecordSubmission(&store.Submission{MsgType: "create_policy", Status: StatusSuccess}))

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, gdb.Model(&store.LedgerEvent{}).Where("type = ?", "policy_transition").Update("created_at", old).Error)
	require.NoError(t, gdb.Model(&store.Submission{}).Where("1 = 1").Update("created_at", old).Error)

	deleted, err := s.DeleteOlderThan(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, err := s.GetEvents(Filter{})
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}

func TestCleaner_InitialCleanup(t *testing.T) {
	s, gdb := setupTestStore(t)
	require.NoError(t, s.RecordEvents(1, sampleEvents()))
	require.NoError(t, gdb.Model(&store.LedgerEvent{}).Where("1 = 1").Update("created_at", time.Now().Add(-time.Hour)).Error)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := NewCleaner(s, time.Hour, time.Minute, zerolog.Nop())
	c.Start(ctx)
	defer c.Stop()

	remaining, err := s.GetEvents(Filter{})
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestCleaner_StopEndsLoop(t *testing.T) {
	s, gdb := setupTestStore(t)

	c := NewCleaner(s, 5*time.Millisecond, time.Minute, zerolog.Nop())
	c.Start(context.Background())
	c.Stop()
	c.Stop()

	// no cleanup runs once Stop has returned
	require.NoError(t, s.RecordEvents(1, sampleEvents()))
	require.NoError(t, gdb.Model(&store.LedgerEvent{}).Where("1 = 1").Update("created_at", time.Now().Add(-time.Hour)).Error)
	time.Sleep(30 * time.Millisecond)

	remaining, err := s.GetEvents(Filter{})
	require.NoError(t, err)
	assert.NotEmpty(t, remaining)
}
