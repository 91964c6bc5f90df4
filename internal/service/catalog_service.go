package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rosavskiy/BeautyAssist-sub001/internal/model"
	"go.uber.org/zap"
)

// CatalogService управляет каталогом услуг мастера
type CatalogService struct {
	serviceRepo ServiceStore
	logger      *zap.Logger
}

func NewCatalogService(serviceRepo ServiceStore, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		serviceRepo: serviceRepo,
		logger:      logger,
	}
}

// Add добавляет услугу. Длительность округляется к ближайшим 5 минутам
func (s *CatalogService) Add(ctx context.Context, masterID int64, name string, durationMinutes, price int) (*model.Service, error) {
	name = strings.TrimSpace(name)
	durationMinutes = model.RoundDuration(durationMinutes)

	if err := validateServiceInput(name, durationMinutes, price); err != nil {
		return nil, err
	}

	service := &model.Service{
		MasterID:        masterID,
		Name:            name,
		DurationMinutes: durationMinutes,
		Price:           price,
		IsActive:        true,
	}

	if err := s.serviceRepo.Create(ctx, service); err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}

	s.logger.Info("Service added",
		zap.Int64("service_id", service.ID),
		zap.Int64("master_id", masterID),
		zap.String("name", name),
		zap.Int("duration_minutes", durationMinutes),
		zap.Int("price", price),
	)

	return service, nil
}

// Edit обновляет услугу. Уже созданные записи изменение не затрагивает
func (s *CatalogService) Edit(ctx context.Context, masterID, serviceID int64, name string, durationMinutes, price int) (*model.Service, error) {
	service, err := s.getOwned(ctx, masterID, serviceID)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	durationMinutes = model.RoundDuration(durationMinutes)

	if err := validateServiceInput(name, durationMinutes, price); err != nil {
		return nil, err
	}

	service.Name = name
	service.DurationMinutes = durationMinutes
	service.Price = price

	if err := s.serviceRepo.Update(ctx, service); err != nil {
		return nil, fmt.Errorf("update service: %w", err)
	}

	s.logger.Info("Service updated",
		zap.Int64("service_id", serviceID),
		zap.Int64("master_id", masterID),
	)

	return service, nil
}

// Toggle включает или отключает услугу.
// Отключённая услуга не принимает новые записи, существующие остаются
func (s *CatalogService) Toggle(ctx context.Context, masterID, serviceID int64) (*model.Service, error) {
	service, err := s.getOwned(ctx, masterID, serviceID)
	if err != nil {
		return nil, err
	}

	service.IsActive = !service.IsActive

	if err := s.serviceRepo.Update(ctx, service); err != nil {
		return nil, fmt.Errorf("update service: %w", err)
	}

	s.logger.Info("Service toggled",
		zap.Int64("service_id", serviceID),
		zap.Int64("master_id", masterID),
		zap.Bool("is_active", service.IsActive),
	)

	return service, nil
}

// List возвращает все услуги мастера
func (s *CatalogService) List(ctx context.Context, masterID int64) ([]*model.Service, error) {
	return s.serviceRepo.GetByMasterID(ctx, masterID)
}

// ListActive возвращает активные услуги мастера
func (s *CatalogService) ListActive(ctx context.Context, masterID int64) ([]*model.Service, error) {
	return s.serviceRepo.GetActiveByMasterID(ctx, masterID)
}

// Get получает услугу мастера. Чужая услуга неотличима от несуществующей
func (s *CatalogService) Get(ctx context.Context, masterID, serviceID int64) (*model.Service, error) {
	return s.getOwned(ctx, masterID, serviceID)
}

func (s *CatalogService) getOwned(ctx context.Context, masterID, serviceID int64) (*model.Service, error) {
	service, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}
	if service == nil || service.MasterID != masterID {
		return nil, ErrServiceNotFound
	}
	return service, nil
}

func validateServiceInput(name string, durationMinutes, price int) error {
	if name == "" {
		return fmt.Errorf("%w: empty service name", ErrInvalidInput)
	}
	if durationMinutes < model.MinServiceDurationMinutes || durationMinutes > model.MaxServiceDurationMinutes {
		return fmt.Errorf("%w: duration must be %d-%d minutes", ErrInvalidInput,
			model.MinServiceDurationMinutes, model.MaxServiceDurationMinutes)
	}
	if price < 0 || price > model.MaxServicePrice {
		return fmt.Errorf("%w: price must be 0-%d", ErrInvalidInput, model.MaxServicePrice)
	}
	return nil
}
