// Package api поднимает админский HTTP API управления промокодами.
// Доступ по статическому bearer-токену, бизнес-логика в service.PromoService
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/app"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/model"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/service"
	"go.uber.org/zap"
)

type PromoService interface {
	Create(ctx context.Context, input service.CreatePromoInput) (*model.PromoCode, error)
	List(ctx context.Context, status *model.PromoCodeStatus, page int) ([]*model.PromoCode, error)
	Stats(ctx context.Context, code string) (*model.PromoCodeStats, error)
	Deactivate(ctx context.Context, code string) (*model.PromoCode, error)
}

type Server struct {
	httpServer *http.Server
	promos     PromoService
	logger     *zap.Logger
}

func NewServer(addr, adminToken string, promos PromoService, metrics *app.Metrics, logger *zap.Logger) *Server {
	s := &Server{
		promos: promos,
		logger: logger,
	}

	r := mux.NewRouter()
	r.Use(metricsMiddleware(metrics))

	// Публичные эндпоинты
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	// Админские эндпоинты под токеном
	adminRouter := r.PathPrefix("/api/v1").Subrouter()
	adminRouter.Use(authMiddleware(adminToken))
	adminRouter.HandleFunc("/promo-codes", s.handleCreatePromo).Methods(http.MethodPost)
	adminRouter.HandleFunc("/promo-codes", s.handleListPromos).Methods(http.MethodGet)
	adminRouter.HandleFunc("/promo-codes/{code}/stats", s.handlePromoStats).Methods(http.MethodGet)
	adminRouter.HandleFunc("/promo-codes/{code}/deactivate", s.handleDeactivatePromo).Methods(http.MethodPost)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start блокируется до остановки сервера
func (s *Server) Start() error {
	s.logger.Info("Admin API listening", zap.String("addr", s.httpServer.Addr))

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
