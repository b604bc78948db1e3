package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ouvidoria-agenda-backend/internal/model"
)

func newTestStore(t *testing.T) Store {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Setting{}, &model.CallLog{}, &model.PushSubscription{}))
	return NewGormStore(db)
}

func TestSettings(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	// Unset keys read as empty, not as an error.
	value, err := st.Setting(ctx, model.SettingDarkMode)
	require.NoError(t, err)
	assert.Equal(t, "", value)

	require.NoError(t, st.SaveSetting(ctx, model.SettingDarkMode, "true"))
	value, err = st.Setting(ctx, model.SettingDarkMode)
	require.NoError(t, err)
	assert.Equal(t, "true", value)

	// Saving again upserts.
	require.NoError(t, st.SaveSetting(ctx, model.SettingDarkMode, "false"))
	value, err = st.Setting(ctx, model.SettingDarkMode)
	require.NoError(t, err)
	assert.Equal(t, "false", value)
}

func TestCallLogs(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		require.NoError(t, st.AppendCallLog(ctx, model.CallLog{
			ID:        fmt.Sprintf("log-%d", i),
			Action:    "update_slot",
			Outcome:   "ok",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	entries, err := st.RecentCallLogs(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	// Newest first.
	assert.Equal(t, "log-4", entries[0].ID)
	assert.Equal(t, "log-2", entries[2].ID)

	entries, err = st.RecentCallLogs(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 5, "zero limit falls back to the default")
}

func TestSubscriptions(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	sub := model.PushSubscription{Endpoint: "https://push.example/a", P256DH: "key1", Auth: "auth1"}
	require.NoError(t, st.SaveSubscription(ctx, sub))

	// Re-subscribing the same endpoint refreshes the keys.
	sub.P256DH = "key2"
	require.NoError(t, st.SaveSubscription(ctx, sub))

	subs, err := st.Subscriptions(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "key2", subs[0].P256DH)

	require.NoError(t, st.DeleteSubscription(ctx, sub.Endpoint))
	subs, err = st.Subscriptions(ctx)
	require.NoError(t, err)
	assert.Empty(t, subs)

	// Deleting a missing endpoint is not an error.
	require.NoError(t, st.DeleteSubscription(ctx, "https://push.example/missing"))
}
