package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rosavskiy/BeautyAssist-sub001/internal/model"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/timeutil"
	"go.uber.org/zap"
)

type MasterService struct {
	masterRepo MasterStore
	tz         *timeutil.Resolver
	clock      timeutil.Clock
	logger     *zap.Logger
}

func NewMasterService(masterRepo MasterStore, tz *timeutil.Resolver, clock timeutil.Clock, logger *zap.Logger) *MasterService {
	return &MasterService{
		masterRepo: masterRepo,
		tz:         tz,
		clock:      clock,
		logger:     logger,
	}
}

// Register регистрирует мастера при первом обращении или обновляет имя.
// Новый мастер получает пояс по умолчанию и пробный период
func (s *MasterService) Register(ctx context.Context, telegramID int64, name string) (*model.Master, error) {
	existing, err := s.masterRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("check existing master: %w", err)
	}

	if existing != nil {
		if name != "" && existing.Name != name {
			existing.Name = name
			if err := s.masterRepo.Update(ctx, existing); err != nil {
				return nil, fmt.Errorf("update master: %w", err)
			}

			s.logger.Info("Master updated",
				zap.Int64("telegram_id", telegramID),
				zap.String("name", name),
			)
		}
		return existing, nil
	}

	trialUntil := s.clock.Now().AddDate(0, 0, model.DefaultTrialDays)
	master := &model.Master{
		TelegramID: telegramID,
		Name:       name,
		Timezone:   model.DefaultTimezone,
		TrialUntil: &trialUntil,
	}

	if err := s.masterRepo.Create(ctx, master); err != nil {
		return nil, fmt.Errorf("create master: %w", err)
	}

	s.logger.Info("New master registered",
		zap.Int64("master_id", master.ID),
		zap.Int64("telegram_id", telegramID),
		zap.String("name", name),
	)

	return master, nil
}

// GetByTelegramID получает мастера по Telegram ID
func (s *MasterService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Master, error) {
	return s.masterRepo.GetByTelegramID(ctx, telegramID)
}

// GetByID получает мастера по ID
func (s *MasterService) GetByID(ctx context.Context, id int64) (*model.Master, error) {
	return s.masterRepo.GetByID(ctx, id)
}

// SetTimezone меняет часовой пояс мастера. Имя пояса сверяется с базой IANA
func (s *MasterService) SetTimezone(ctx context.Context, masterID int64, timezone string) error {
	if err := s.tz.Validate(timezone); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.masterRepo.UpdateTimezone(ctx, masterID, timezone); err != nil {
		return fmt.Errorf("update timezone: %w", err)
	}

	s.logger.Info("Master timezone changed",
		zap.Int64("master_id", masterID),
		zap.String("timezone", timezone),
	)

	return nil
}

// ExtendTrial продлевает пробный период мастера на days дней.
// Отсчёт идёт от текущего конца периода, а если он уже прошёл — от текущего
// момента. Сюда приходят дни из погашенных trial_extension промокодов
func (s *MasterService) ExtendTrial(ctx context.Context, masterID int64, days int) (time.Time, error) {
	if days <= 0 {
		return time.Time{}, fmt.Errorf("%w: trial days must be positive", ErrInvalidInput)
	}

	master, err := s.masterRepo.GetByID(ctx, masterID)
	if err != nil {
		return time.Time{}, fmt.Errorf("get master: %w", err)
	}
	if master == nil {
		return time.Time{}, ErrMasterNotFound
	}

	base := s.clock.Now()
	if master.TrialUntil != nil && master.TrialUntil.After(base) {
		base = *master.TrialUntil
	}
	until := base.AddDate(0, 0, days)

	if err := s.masterRepo.SetTrialUntil(ctx, masterID, until); err != nil {
		return time.Time{}, fmt.Errorf("set trial until: %w", err)
	}

	s.logger.Info("Master trial extended",
		zap.Int64("master_id", masterID),
		zap.Int("days", days),
		zap.Time("until", until),
	)

	return until, nil
}
