package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rosavskiy/BeautyAssist-sub001/internal/model"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/repository/base"
	"go.uber.org/zap"
)

type ClientService struct {
	clientRepo ClientStore
	logger     *zap.Logger
}

func NewClientService(clientRepo ClientStore, logger *zap.Logger) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		logger:     logger,
	}
}

// Add добавляет клиента мастеру. Телефон нормализуется перед сохранением;
// второй клиент с тем же телефоном у одного мастера не допускается
func (s *ClientService) Add(ctx context.Context, masterID int64, name, phone string) (*model.Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty client name", ErrInvalidInput)
	}

	normalized := model.NormalizePhone(phone)
	if normalized == "" {
		return nil, fmt.Errorf("%w: empty phone", ErrInvalidInput)
	}

	client := &model.Client{
		MasterID: masterID,
		Name:     name,
		Phone:    normalized,
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		if base.IsUniqueViolation(err) {
			return nil, ErrClientExists
		}
		return nil, fmt.Errorf("create client: %w", err)
	}

	s.logger.Info("Client added",
		zap.Int64("client_id", client.ID),
		zap.Int64("master_id", masterID),
		zap.String("name", name),
	)

	return client, nil
}

// List возвращает всех клиентов мастера
func (s *ClientService) List(ctx context.Context, masterID int64) ([]*model.Client, error) {
	return s.clientRepo.GetByMasterID(ctx, masterID)
}

// Get получает клиента мастера. Чужой клиент неотличим от несуществующего
func (s *ClientService) Get(ctx context.Context, masterID, clientID int64) (*model.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	if client == nil || client.MasterID != masterID {
		return nil, ErrClientNotFound
	}
	return client, nil
}

// FindByPhone ищет клиента мастера по телефону
func (s *ClientService) FindByPhone(ctx context.Context, masterID int64, phone string) (*model.Client, error) {
	client, err := s.clientRepo.GetByPhone(ctx, masterID, model.NormalizePhone(phone))
	if err != nil {
		return nil, fmt.Errorf("find client by phone: %w", err)
	}
	return client, nil
}
