package service

import (
	"context"
	"testing"

	"github.com/rosavskiy/BeautyAssist-sub001/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMasterService_Register_New(t *testing.T) {
	env := newTestEnv(t)

	master, err := env.masterSvc.Register(context.Background(), 42001, "Анна")
	require.NoError(t, err)

	assert.NotZero(t, master.ID)
	assert.Equal(t, int64(42001), master.TelegramID)
	assert.Equal(t, model.DefaultTimezone, master.Timezone)
	require.NotNil(t, master.TrialUntil)
	assert.True(t, master.TrialUntil.Equal(testNow.AddDate(0, 0, model.DefaultTrialDays)),
		"новому мастеру включается пробный период")
}

func TestMasterService_Register_Existing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.masterSvc.Register(ctx, 42001, "Анна")
	require.NoError(t, err)

	// Повторная регистрация возвращает того же мастера
	second, err := env.masterSvc.Register(ctx, 42001, "Анна")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// Смена имени в Telegram подтягивается при следующем /start
	renamed, err := env.masterSvc.Register(ctx, 42001, "Анна Петрова")
	require.NoError(t, err)
	assert.Equal(t, first.ID, renamed.ID)
	assert.Equal(t, "Анна Петрова", renamed.Name)

	// Пустое имя не затирает сохранённое
	kept, err := env.masterSvc.Register(ctx, 42001, "")
	require.NoError(t, err)
	assert.Equal(t, "Анна Петрова", kept.Name)
}

func TestMasterService_SetTimezone(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	master := env.seedMaster(t)

	require.NoError(t, env.masterSvc.SetTimezone(ctx, master.ID, "Asia/Yekaterinburg"))
	assert.Equal(t, "Asia/Yekaterinburg", env.masters.masters[master.ID].Timezone)

	err := env.masterSvc.SetTimezone(ctx, master.ID, "Mars/Olympus")
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "Asia/Yekaterinburg", env.masters.masters[master.ID].Timezone,
		"неизвестный пояс не сохраняется")
}

func TestMasterService_ExtendTrial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("действующий период продлевается от его конца", func(t *testing.T) {
		master := env.seedMaster(t)
		current := testNow.AddDate(0, 0, 3)
		master.TrialUntil = &current

		until, err := env.masterSvc.ExtendTrial(ctx, master.ID, 7)
		require.NoError(t, err)
		assert.True(t, until.Equal(current.AddDate(0, 0, 7)))
	})

	t.Run("истёкший период продлевается от текущего момента", func(t *testing.T) {
		master := env.seedMaster(t)
		expired := testNow.AddDate(0, 0, -10)
		master.TrialUntil = &expired

		until, err := env.masterSvc.ExtendTrial(ctx, master.ID, 7)
		require.NoError(t, err)
		assert.True(t, until.Equal(testNow.AddDate(0, 0, 7)))
	})

	t.Run("без периода отсчёт от текущего момента", func(t *testing.T) {
		master := env.seedMaster(t)
		master.TrialUntil = nil

		until, err := env.masterSvc.ExtendTrial(ctx, master.ID, 14)
		require.NoError(t, err)
		assert.True(t, until.Equal(testNow.AddDate(0, 0, 14)))
	})

	t.Run("неположительное число дней отклоняется", func(t *testing.T) {
		master := env.seedMaster(t)

		_, err := env.masterSvc.ExtendTrial(ctx, master.ID, 0)
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("несуществующий мастер", func(t *testing.T) {
		_, err := env.masterSvc.ExtendTrial(ctx, 9999, 7)
		require.ErrorIs(t, err, ErrMasterNotFound)
	})
}
