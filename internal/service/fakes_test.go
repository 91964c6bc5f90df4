package service

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/model"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/timeutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Фиксированный момент "сейчас" для всех тестов пакета
var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type fakeClock struct{ now time.Time }

func (c fakeClock) Now() time.Time { return c.now }

// fakeTxManager выполняет функцию как есть: фейковым хранилищам
// транзакция не нужна
type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeReminders struct {
	cancelled []int64
}

func (r *fakeReminders) CancelForAppointment(appointmentID int64) {
	r.cancelled = append(r.cancelled, appointmentID)
}

type fakeMasterStore struct {
	masters map[int64]*model.Master
	nextID  int64
	locks   int
}

func newFakeMasterStore() *fakeMasterStore {
	return &fakeMasterStore{masters: make(map[int64]*model.Master)}
}

func (s *fakeMasterStore) Create(ctx context.Context, master *model.Master) error {
	s.nextID++
	master.ID = s.nextID
	master.CreatedAt = testNow
	s.masters[master.ID] = master
	return nil
}

func (s *fakeMasterStore) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Master, error) {
	for _, m := range s.masters {
		if m.TelegramID == telegramID {
			return m, nil
		}
	}
	return nil, nil
}

func (s *fakeMasterStore) GetByID(ctx context.Context, id int64) (*model.Master, error) {
	return s.masters[id], nil
}

func (s *fakeMasterStore) Update(ctx context.Context, master *model.Master) error {
	s.masters[master.ID] = master
	return nil
}

func (s *fakeMasterStore) UpdateTimezone(ctx context.Context, id int64, timezone string) error {
	s.masters[id].Timezone = timezone
	return nil
}

func (s *fakeMasterStore) SetTrialUntil(ctx context.Context, id int64, until time.Time) error {
	s.masters[id].TrialUntil = &until
	return nil
}

func (s *fakeMasterStore) Lock(ctx context.Context, id int64) error {
	s.locks++
	return nil
}

type fakeClientStore struct {
	clients map[int64]*model.Client
	nextID  int64
}

func newFakeClientStore() *fakeClientStore {
	return &fakeClientStore{clients: make(map[int64]*model.Client)}
}

func (s *fakeClientStore) Create(ctx context.Context, client *model.Client) error {
	for _, c := range s.clients {
		if c.MasterID == client.MasterID && c.Phone == client.Phone {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	s.nextID++
	client.ID = s.nextID
	client.CreatedAt = testNow
	s.clients[client.ID] = client
	return nil
}

func (s *fakeClientStore) GetByID(ctx context.Context, id int64) (*model.Client, error) {
	return s.clients[id], nil
}

func (s *fakeClientStore) GetByMasterID(ctx context.Context, masterID int64) ([]*model.Client, error) {
	var result []*model.Client
	for _, c := range s.clients {
		if c.MasterID == masterID {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (s *fakeClientStore) GetByPhone(ctx context.Context, masterID int64, phone string) (*model.Client, error) {
	for _, c := range s.clients {
		if c.MasterID == masterID && c.Phone == phone {
			return c, nil
		}
	}
	return nil, nil
}

func (s *fakeClientStore) ApplyVisit(ctx context.Context, clientID int64, amount int, visitedAt time.Time) error {
	c := s.clients[clientID]
	c.TotalVisits++
	c.TotalSpent += amount
	c.LastVisit = &visitedAt
	return nil
}

type fakeServiceStore struct {
	services map[int64]*model.Service
	nextID   int64
}

func newFakeServiceStore() *fakeServiceStore {
	return &fakeServiceStore{services: make(map[int64]*model.Service)}
}

func (s *fakeServiceStore) Create(ctx context.Context, service *model.Service) error {
	s.nextID++
	service.ID = s.nextID
	service.CreatedAt = testNow
	s.services[service.ID] = service
	return nil
}

func (s *fakeServiceStore) GetByID(ctx context.Context, id int64) (*model.Service, error) {
	return s.services[id], nil
}

func (s *fakeServiceStore) GetByMasterID(ctx context.Context, masterID int64) ([]*model.Service, error) {
	return s.filter(masterID, false), nil
}

func (s *fakeServiceStore) GetActiveByMasterID(ctx context.Context, masterID int64) ([]*model.Service, error) {
	return s.filter(masterID, true), nil
}

func (s *fakeServiceStore) Update(ctx context.Context, service *model.Service) error {
	s.services[service.ID] = service
	return nil
}

func (s *fakeServiceStore) filter(masterID int64, onlyActive bool) []*model.Service {
	var result []*model.Service
	for _, svc := range s.services {
		if svc.MasterID != masterID {
			continue
		}
		if onlyActive && !svc.IsActive {
			continue
		}
		result = append(result, svc)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

type fakeAppointmentStore struct {
	appointments map[int64]*model.Appointment
	clients      *fakeClientStore
	services     *fakeServiceStore
	nextID       int64
}

func newFakeAppointmentStore(clients *fakeClientStore, services *fakeServiceStore) *fakeAppointmentStore {
	return &fakeAppointmentStore{
		appointments: make(map[int64]*model.Appointment),
		clients:      clients,
		services:     services,
	}
}

func (s *fakeAppointmentStore) Create(ctx context.Context, appointment *model.Appointment) error {
	s.nextID++
	appointment.ID = s.nextID
	appointment.CreatedAt = testNow
	appointment.UpdatedAt = testNow
	s.appointments[appointment.ID] = appointment
	return nil
}

func (s *fakeAppointmentStore) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	return s.appointments[id], nil
}

func (s *fakeAppointmentStore) GetByIDForUpdate(ctx context.Context, id int64) (*model.Appointment, error) {
	return s.appointments[id], nil
}

func (s *fakeAppointmentStore) GetActiveOverlapping(ctx context.Context, masterID int64, start, end time.Time) ([]*model.Appointment, error) {
	var result []*model.Appointment
	for _, a := range s.appointments {
		if a.MasterID == masterID && a.Status.IsActive() && a.Overlaps(start, end) {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.Before(result[j].StartTime) })
	return result, nil
}

func (s *fakeAppointmentStore) GetByMasterAndRange(ctx context.Context, masterID int64, from, to time.Time, statuses []model.AppointmentStatus) ([]*model.Appointment, error) {
	var result []*model.Appointment
	for _, a := range s.appointments {
		if a.MasterID != masterID {
			continue
		}
		if a.StartTime.Before(from) || !a.StartTime.Before(to) {
			continue
		}
		if len(statuses) > 0 && !containsStatus(statuses, a.Status) {
			continue
		}
		a.Client = s.clients.clients[a.ClientID]
		a.Service = s.services.services[a.ServiceID]
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.Before(result[j].StartTime) })
	return result, nil
}

func (s *fakeAppointmentStore) UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) error {
	s.appointments[id].Status = status
	return nil
}

func (s *fakeAppointmentStore) Finish(ctx context.Context, id int64, status model.AppointmentStatus, paymentAmount *int, notes string) error {
	a := s.appointments[id]
	a.Status = status
	a.IsCompleted = true
	a.PaymentAmount = paymentAmount
	a.Notes = notes
	return nil
}

func (s *fakeAppointmentStore) Cancel(ctx context.Context, id int64, notes string) error {
	a := s.appointments[id]
	a.Status = model.AppointmentStatusCancelled
	a.Notes = notes
	return nil
}

func (s *fakeAppointmentStore) CountActiveByMaster(ctx context.Context, masterID int64, from time.Time) (int, error) {
	count := 0
	for _, a := range s.appointments {
		if a.MasterID == masterID && a.Status.IsActive() && !a.StartTime.Before(from) {
			count++
		}
	}
	return count, nil
}

func containsStatus(statuses []model.AppointmentStatus, status model.AppointmentStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type fakePromoStore struct {
	promos      map[string]*model.PromoCode
	usages      []*model.PromoCodeUsage
	nextID      int64
	nextUsageID int64
}

func newFakePromoStore() *fakePromoStore {
	return &fakePromoStore{promos: make(map[string]*model.PromoCode)}
}

func (s *fakePromoStore) Create(ctx context.Context, promo *model.PromoCode) error {
	if _, ok := s.promos[promo.Code]; ok {
		return &pgconn.PgError{Code: "23505"}
	}
	s.nextID++
	promo.ID = s.nextID
	promo.CreatedAt = testNow
	s.promos[promo.Code] = promo
	return nil
}

func (s *fakePromoStore) GetByCode(ctx context.Context, code string) (*model.PromoCode, error) {
	return s.promos[code], nil
}

func (s *fakePromoStore) GetByCodeForUpdate(ctx context.Context, code string) (*model.PromoCode, error) {
	return s.promos[code], nil
}

func (s *fakePromoStore) List(ctx context.Context, status *model.PromoCodeStatus, limit, offset int) ([]*model.PromoCode, error) {
	var result []*model.PromoCode
	for _, p := range s.promos {
		if status != nil && p.Status != *status {
			continue
		}
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *fakePromoStore) SetStatus(ctx context.Context, id int64, status model.PromoCodeStatus) error {
	if p := s.byID(id); p != nil {
		p.Status = status
	}
	return nil
}

func (s *fakePromoStore) IncrementUses(ctx context.Context, id int64) (int, error) {
	p := s.byID(id)
	p.CurrentUses++
	return p.CurrentUses, nil
}

func (s *fakePromoStore) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	for _, p := range s.promos {
		if p.Status == model.PromoStatusActive && p.ValidUntil != nil && p.ValidUntil.Before(now) {
			p.Status = model.PromoStatusExpired
			n++
		}
	}
	return n, nil
}

func (s *fakePromoStore) CountUsagesByMaster(ctx context.Context, promoCodeID, masterID int64) (int, error) {
	count := 0
	for _, u := range s.usages {
		if u.PromoCodeID == promoCodeID && u.MasterID == masterID {
			count++
		}
	}
	return count, nil
}

func (s *fakePromoStore) InsertUsage(ctx context.Context, usage *model.PromoCodeUsage) error {
	s.nextUsageID++
	usage.ID = s.nextUsageID
	usage.CreatedAt = testNow
	s.usages = append(s.usages, usage)
	return nil
}

func (s *fakePromoStore) GetStats(ctx context.Context, code string) (*model.PromoCodeStats, error) {
	p := s.promos[code]
	if p == nil {
		return nil, nil
	}

	stats := &model.PromoCodeStats{
		Code:        p.Code,
		Status:      p.Status,
		CurrentUses: p.CurrentUses,
		MaxUses:     p.MaxUses,
	}
	redeemers := make(map[int64]struct{})
	for _, u := range s.usages {
		if u.PromoCodeID != p.ID {
			continue
		}
		stats.UsageCount++
		stats.TotalDiscountGiven += u.DiscountAmount
		stats.TotalFinalAmount += u.FinalAmount
		redeemers[u.MasterID] = struct{}{}
	}
	stats.UniqueRedeemers = len(redeemers)
	return stats, nil
}

func (s *fakePromoStore) byID(id int64) *model.PromoCode {
	for _, p := range s.promos {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// testEnv собирает сервисы на фейковых хранилищах с фиксированными часами
type testEnv struct {
	masters      *fakeMasterStore
	clients      *fakeClientStore
	services     *fakeServiceStore
	appointments *fakeAppointmentStore
	promos       *fakePromoStore
	reminders    *fakeReminders

	appointmentSvc *AppointmentService
	promoSvc       *PromoService
	masterSvc      *MasterService
	clientSvc      *ClientService
	catalogSvc     *CatalogService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tz, err := timeutil.NewResolver(model.DefaultTimezone)
	require.NoError(t, err)

	env := &testEnv{
		masters:   newFakeMasterStore(),
		clients:   newFakeClientStore(),
		services:  newFakeServiceStore(),
		promos:    newFakePromoStore(),
		reminders: &fakeReminders{},
	}
	env.appointments = newFakeAppointmentStore(env.clients, env.services)

	clock := fakeClock{now: testNow}
	logger := zap.NewNop()

	env.appointmentSvc = NewAppointmentService(
		fakeTxManager{}, env.masters, env.clients, env.services,
		env.appointments, env.reminders, tz, clock, logger,
	)
	env.promoSvc = NewPromoService(fakeTxManager{}, env.promos, validator.New(), clock, logger)
	env.masterSvc = NewMasterService(env.masters, tz, clock, logger)
	env.clientSvc = NewClientService(env.clients, logger)
	env.catalogSvc = NewCatalogService(env.services, logger)

	return env
}

func (e *testEnv) seedMaster(t *testing.T) *model.Master {
	t.Helper()
	master := &model.Master{TelegramID: 100500, Name: "Анна", Timezone: model.DefaultTimezone}
	require.NoError(t, e.masters.Create(context.Background(), master))
	return master
}

func (e *testEnv) seedClient(t *testing.T, masterID int64) *model.Client {
	t.Helper()
	client := &model.Client{
		MasterID: masterID,
		Name:     "Мария",
		Phone:    fmt.Sprintf("+7999123%04d", e.clients.nextID+1),
	}
	require.NoError(t, e.clients.Create(context.Background(), client))
	return client
}

func (e *testEnv) seedService(t *testing.T, masterID int64, durationMinutes, price int) *model.Service {
	t.Helper()
	service := &model.Service{
		MasterID:        masterID,
		Name:            "Маникюр",
		DurationMinutes: durationMinutes,
		Price:           price,
		IsActive:        true,
	}
	require.NoError(t, e.services.Create(context.Background(), service))
	return service
}

func (e *testEnv) seedPromo(t *testing.T, promo *model.PromoCode) *model.PromoCode {
	t.Helper()
	promo.Code = model.NormalizePromoCode(promo.Code)
	if promo.Status == "" {
		promo.Status = model.PromoStatusActive
	}
	if promo.MaxUsesPerUser == 0 {
		promo.MaxUsesPerUser = model.DefaultMaxUsesPerUser
	}
	if promo.ValidFrom.IsZero() {
		promo.ValidFrom = testNow.AddDate(0, 0, -1)
	}
	require.NoError(t, e.promos.Create(context.Background(), promo))
	return promo
}

func intPtr(v int) *int { return &v }
