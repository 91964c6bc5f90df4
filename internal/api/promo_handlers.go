package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/model"
	"github.com/rosavskiy/BeautyAssist-sub001/internal/service"
	"go.uber.org/zap"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStatus      = "некорректный статус: ожидается active, inactive, expired или depleted"
	msgInvalidPage        = "некорректный номер страницы"
	msgPromoNotFound      = "промокод не найден"
	msgPromoExists        = "промокод с таким кодом уже существует"
)

type createPromoRequest struct {
	Code               string     `json:"code"`
	Type               string     `json:"type"`
	DiscountPercent    *int       `json:"discount_percent,omitempty"`
	DiscountAmount     *int       `json:"discount_amount,omitempty"`
	TrialExtensionDays *int       `json:"trial_extension_days,omitempty"`
	ValidFrom          *time.Time `json:"valid_from,omitempty"`
	ValidUntil         *time.Time `json:"valid_until,omitempty"`
	MaxUses            *int       `json:"max_uses,omitempty"`
	MaxUsesPerUser     int        `json:"max_uses_per_user,omitempty"`
}

type listPromosResponse struct {
	PromoCodes []*model.PromoCode `json:"promo_codes"`
	Page       int                `json:"page"`
}

// handleCreatePromo POST /api/v1/promo-codes
func (s *Server) handleCreatePromo(w http.ResponseWriter, r *http.Request) {
	var req createPromoRequest
	if err := decodeJSON(r, &req); err != nil {
		s.logger.Warn("Create promo: invalid request body", zap.Error(err))
		respondBadRequest(w, msgInvalidRequestBody)
		return
	}

	promo, err := s.promos.Create(r.Context(), service.CreatePromoInput{
		Code:               req.Code,
		Type:               model.PromoCodeType(req.Type),
		DiscountPercent:    req.DiscountPercent,
		DiscountAmount:     req.DiscountAmount,
		TrialExtensionDays: req.TrialExtensionDays,
		ValidFrom:          req.ValidFrom,
		ValidUntil:         req.ValidUntil,
		MaxUses:            req.MaxUses,
		MaxUsesPerUser:     req.MaxUsesPerUser,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPromoExists):
			s.logger.Warn("Create promo: duplicate code", zap.String("code", req.Code))
			respondConflict(w, msgPromoExists)

		case errors.Is(err, service.ErrInvalidInput):
			s.logger.Warn("Create promo: invalid input", zap.Error(err))
			respondBadRequest(w, invalidInputDetail(err))

		default:
			s.logger.Error("Create promo failed", zap.String("code", req.Code), zap.Error(err))
			respondInternalError(w)
		}
		return
	}

	s.logger.Info("Promo code created",
		zap.String("code", promo.Code),
		zap.String("type", string(promo.Type)))
	respondJSON(w, http.StatusCreated, promo)
}

// handleListPromos GET /api/v1/promo-codes?status=&page=
func (s *Server) handleListPromos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var status *model.PromoCodeStatus
	if raw := q.Get("status"); raw != "" {
		st := model.PromoCodeStatus(raw)
		switch st {
		case model.PromoStatusActive, model.PromoStatusInactive, model.PromoStatusExpired, model.PromoStatusDepleted:
			status = &st
		default:
			respondBadRequest(w, msgInvalidStatus)
			return
		}
	}

	page := 1
	if raw := q.Get("page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 1 {
			respondBadRequest(w, msgInvalidPage)
			return
		}
		page = p
	}

	promos, err := s.promos.List(r.Context(), status, page)
	if err != nil {
		s.logger.Error("List promos failed", zap.Error(err))
		respondInternalError(w)
		return
	}
	if promos == nil {
		promos = []*model.PromoCode{}
	}

	respondJSON(w, http.StatusOK, listPromosResponse{PromoCodes: promos, Page: page})
}

// handlePromoStats GET /api/v1/promo-codes/{code}/stats
func (s *Server) handlePromoStats(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	stats, err := s.promos.Stats(r.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPromoNotFound):
			respondNotFound(w, msgPromoNotFound)
		default:
			s.logger.Error("Promo stats failed", zap.String("code", code), zap.Error(err))
			respondInternalError(w)
		}
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// handleDeactivatePromo POST /api/v1/promo-codes/{code}/deactivate
func (s *Server) handleDeactivatePromo(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	promo, err := s.promos.Deactivate(r.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPromoNotFound):
			respondNotFound(w, msgPromoNotFound)
		default:
			s.logger.Error("Deactivate promo failed", zap.String("code", code), zap.Error(err))
			respondInternalError(w)
		}
		return
	}

	s.logger.Info("Promo code deactivated", zap.String("code", promo.Code))
	respondJSON(w, http.StatusOK, promo)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// invalidInputDetail снимает префикс сентинеля, оставляя описание поля
func invalidInputDetail(err error) string {
	msg := err.Error()
	prefix := service.ErrInvalidInput.Error() + ": "
	if strings.HasPrefix(msg, prefix) {
		return strings.TrimPrefix(msg, prefix)
	}
	return msg
}
