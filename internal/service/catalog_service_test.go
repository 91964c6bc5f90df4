package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_Add(t *testing.T) {
	tests := []struct {
		name         string
		serviceName  string
		duration     int
		price        int
		wantDuration int
		wantErr      bool
	}{
		{name: "обычная услуга", serviceName: "Маникюр", duration: 60, price: 1500, wantDuration: 60},
		{name: "длительность округляется к 5 минутам", serviceName: "Стрижка", duration: 47, price: 1000, wantDuration: 45},
		{name: "округление вверх", serviceName: "Стрижка", duration: 48, price: 1000, wantDuration: 50},
		{name: "бесплатная консультация", serviceName: "Консультация", duration: 15, price: 0, wantDuration: 15},
		{name: "пустое имя", serviceName: "   ", duration: 60, price: 1500, wantErr: true},
		{name: "слишком короткая", serviceName: "Блиц", duration: 2, price: 500, wantErr: true},
		{name: "длиннее восьми часов", serviceName: "Марафон", duration: 500, price: 500, wantErr: true},
		{name: "отрицательная цена", serviceName: "Маникюр", duration: 60, price: -1, wantErr: true},
		{name: "цена выше потолка", serviceName: "Маникюр", duration: 60, price: 1_000_001, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			master := env.seedMaster(t)

			service, err := env.catalogSvc.Add(context.Background(), master.ID, tt.serviceName, tt.duration, tt.price)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, tt.wantDuration, service.DurationMinutes)
			assert.Equal(t, tt.price, service.Price)
			assert.True(t, service.IsActive, "новая услуга сразу активна")
		})
	}
}

func TestCatalogService_Edit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	master := env.seedMaster(t)
	service := env.seedService(t, master.ID, 60, 1500)

	updated, err := env.catalogSvc.Edit(ctx, master.ID, service.ID, "Маникюр с покрытием", 90, 2200)
	require.NoError(t, err)
	assert.Equal(t, "Маникюр с покрытием", updated.Name)
	assert.Equal(t, 90, updated.DurationMinutes)
	assert.Equal(t, 2200, updated.Price)

	// Чужую услугу редактировать нельзя
	_, err = env.catalogSvc.Edit(ctx, master.ID+1, service.ID, "Взлом", 60, 100)
	require.ErrorIs(t, err, ErrServiceNotFound)
}

func TestCatalogService_Toggle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	master := env.seedMaster(t)
	service := env.seedService(t, master.ID, 60, 1500)

	toggled, err := env.catalogSvc.Toggle(ctx, master.ID, service.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	toggled, err = env.catalogSvc.Toggle(ctx, master.ID, service.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)

	_, err = env.catalogSvc.Toggle(ctx, master.ID, 9999)
	require.ErrorIs(t, err, ErrServiceNotFound)
}

func TestCatalogService_ListActive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	master := env.seedMaster(t)

	active := env.seedService(t, master.ID, 60, 1500)
	disabled := env.seedService(t, master.ID, 30, 800)
	_, err := env.catalogSvc.Toggle(ctx, master.ID, disabled.ID)
	require.NoError(t, err)

	all, err := env.catalogSvc.List(ctx, master.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyActive, err := env.catalogSvc.ListActive(ctx, master.ID)
	require.NoError(t, err)
	require.Len(t, onlyActive, 1)
	assert.Equal(t, active.ID, onlyActive[0].ID)
}
