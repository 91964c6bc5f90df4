package handlers

import (
	"github.com/rosavskiy/BeautyAssist-sub001/internal/app"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/service"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/timeutil"
	"go.uber.org/zap"
)

// Handlers содержит зависимости обработчиков команд
type Handlers struct {
	masterService      *service.MasterService
	clientService      *service.ClientService
	catalogService     *service.CatalogService
	appointmentService *service.AppointmentService
	promoService       *service.PromoService

	tz      *timeutil.Resolver
	clock   timeutil.Clock
	metrics *app.Metrics

	// Цена подписки, к которой применяются промокоды
	subscriptionPrice int

	logger *zap.Logger
}

func NewHandlers(
	masterService *service.MasterService,
	clientService *service.ClientService,
	catalogService *service.CatalogService,
	appointmentService *service.AppointmentService,
	promoService *service.PromoService,
	tz *timeutil.Resolver,
	clock timeutil.Clock,
	metrics *app.Metrics,
	subscriptionPrice int,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		masterService:      masterService,
		clientService:      clientService,
		catalogService:     catalogService,
		appointmentService: appointmentService,
		promoService:       promoService,
		tz:                 tz,
		clock:              clock,
		metrics:            metrics,
		subscriptionPrice:  subscriptionPrice,
		logger:             logger,
	}
}
