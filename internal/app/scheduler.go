package app

import (
	"context"
	"time"

	"github.com/rosavskiy/BeautyAssist-sub001/internal/service"
	"go.uber.org/zap"
)

// Интервал фоновой сверки статусов промокодов
const promoSweepInterval = time.Hour

// Scheduler управляет фоновыми задачами процесса
type Scheduler struct {
	promoService *service.PromoService
	logger       *zap.Logger
	stopChan     chan struct{}
}

func NewScheduler(promoService *service.PromoService, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		promoService: promoService,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	go s.runPromoSweepTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runPromoSweepTask раз в час переводит просроченные активные промокоды
// в expired. Валидация проверяет срок и сама, задача лишь выравнивает
// хранимый статус, чтобы списки и статистика не показывали код активным
func (s *Scheduler) runPromoSweepTask(ctx context.Context) {
	// Первый проход сразу при старте
	s.sweepExpiredPromos(ctx)

	ticker := time.NewTicker(promoSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweepExpiredPromos(ctx)
		case <-s.stopChan:
			s.logger.Info("Promo sweep task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Promo sweep task cancelled")
			return
		}
	}
}

func (s *Scheduler) sweepExpiredPromos(ctx context.Context) {
	if _, err := s.promoService.ExpireStale(ctx); err != nil {
		s.logger.Error("Failed to sweep expired promo codes", zap.Error(err))
	}
}
