package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/rosavskiy/BeautyAssist-sub001/internal/model"
)

var (
	// ErrMasterNotFound возвращается, когда мастер не найден
	ErrMasterNotFound = errors.New("master not found")

	// ErrClientNotFound возвращается, когда клиент не найден или принадлежит другому мастеру
	ErrClientNotFound = errors.New("client not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена или принадлежит другому мастеру
	ErrServiceNotFound = errors.New("service not found")

	// ErrServiceInactive возвращается при попытке записи на отключённую услугу
	ErrServiceInactive = errors.New("service is not active")

	// ErrAppointmentNotFound возвращается, когда запись не найдена.
	// Та же ошибка отдаётся для чужих записей, чтобы не раскрывать их существование
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrAppointmentConflict возвращается при пересечении с существующей записью
	ErrAppointmentConflict = errors.New("appointment time conflict")

	// ErrInvalidTransition возвращается при недопустимой смене статуса записи
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrClientExists возвращается, когда у мастера уже есть клиент с таким телефоном
	ErrClientExists = errors.New("client with this phone already exists")

	// ErrPromoNotFound возвращается, когда промокод не найден
	ErrPromoNotFound = errors.New("promo code not found")

	// ErrPromoInactive возвращается, когда промокод отключён администратором
	ErrPromoInactive = errors.New("promo code is inactive")

	// ErrPromoExpired возвращается, когда срок действия промокода истёк
	ErrPromoExpired = errors.New("promo code is expired")

	// ErrPromoDepleted возвращается, когда исчерпан глобальный лимит погашений
	ErrPromoDepleted = errors.New("promo code is depleted")

	// ErrPromoAlreadyUsed возвращается, когда мастер исчерпал персональный лимит погашений
	ErrPromoAlreadyUsed = errors.New("promo code already used")

	// ErrPromoExists возвращается при создании промокода с занятым кодом
	ErrPromoExists = errors.New("promo code already exists")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")
)

// ConflictError конфликт интервалов при создании записи.
// Несёт окно существующей записи, с которой пересёкся новый интервал
type ConflictError struct {
	BusyStart time.Time
	BusyEnd   time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("appointment time conflict: busy %s - %s",
		e.BusyStart.Format(time.RFC3339), e.BusyEnd.Format(time.RFC3339))
}

func (e *ConflictError) Unwrap() error { return ErrAppointmentConflict }

// StatusError недопустимый переход статуса записи
type StatusError struct {
	Current model.AppointmentStatus
	Target  model.AppointmentStatus
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("invalid status transition: %s -> %s", e.Current, e.Target)
}

func (e *StatusError) Unwrap() error { return ErrInvalidTransition }

// LimitError исчерпанный лимит погашений промокода.
// Err различает глобальное исчерпание (ErrPromoDepleted) и персональное
// (ErrPromoAlreadyUsed), Current и Limit несут фактические значения счётчика
type LimitError struct {
	Err     error
	Current int
	Limit   int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%v: %d/%d", e.Err, e.Current, e.Limit)
}

func (e *LimitError) Unwrap() error { return e.Err }
