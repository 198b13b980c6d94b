package domain

import (
	"errors"
	"fmt"
)

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
	StatusNoShow     BookingStatus = "no_show"
)

// PaymentStatus represents the payment track of a booking.
// It evolves independently of BookingStatus.
type PaymentStatus string

const (
	PaymentUnpaid              PaymentStatus = "unpaid"
	PaymentPendingVerification PaymentStatus = "pending_verification"
	PaymentPartial             PaymentStatus = "partial"
	PaymentPaid                PaymentStatus = "paid"
	PaymentRefundRequested     PaymentStatus = "refund_requested"
	PaymentRefundCancelled     PaymentStatus = "refund_cancelled"
	PaymentRefunded            PaymentStatus = "refunded"
)

var (
	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = errors.New("domain: invalid status transition")

	// ErrUnknownStatus возвращается для неизвестного статуса
	ErrUnknownStatus = errors.New("domain: unknown status")
)

// statusTransitions таблица допустимых переходов статуса бронирования.
// Терминальные статусы (completed, cancelled, no_show) не имеют переходов.
// Все переходы инициируются явно пользователем или оператором, автоматических
// переходов по таймеру нет.
var statusTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted},
	StatusCompleted:  {},
	StatusCancelled:  {},
	StatusNoShow:     {},
}

// paymentTransitions таблица допустимых переходов статуса оплаты.
// Ветка возвратов: paid -> refund_requested -> refunded,
// либо refund_requested -> refund_cancelled (бронирование остаётся оплаченным,
// возврат можно запросить снова).
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentUnpaid:              {PaymentPendingVerification, PaymentPartial},
	PaymentPendingVerification: {PaymentPaid},
	PaymentPartial:             {PaymentPaid, PaymentPendingVerification},
	PaymentPaid:                {PaymentRefundRequested},
	PaymentRefundRequested:     {PaymentRefunded, PaymentRefundCancelled},
	PaymentRefundCancelled:     {PaymentRefundRequested},
	PaymentRefunded:            {},
}

var statusLabels = map[BookingStatus]string{
	StatusPending:    "Pending",
	StatusConfirmed:  "Confirmed",
	StatusInProgress: "In progress",
	StatusCompleted:  "Completed",
	StatusCancelled:  "Cancelled",
	StatusNoShow:     "No-show",
}

var paymentLabels = map[PaymentStatus]string{
	PaymentUnpaid:              "Unpaid",
	PaymentPendingVerification: "Pending verification",
	PaymentPartial:             "Partially paid",
	PaymentPaid:                "Paid",
	PaymentRefundRequested:     "Refund requested",
	PaymentRefundCancelled:     "Refund cancelled",
	PaymentRefunded:            "Refunded",
}

// ValidStatus возвращает true для известного статуса бронирования
func ValidStatus(s BookingStatus) bool {
	_, ok := statusTransitions[s]
	return ok
}

// ValidPaymentStatus возвращает true для известного статуса оплаты
func ValidPaymentStatus(s PaymentStatus) bool {
	_, ok := paymentTransitions[s]
	return ok
}

// CanTransitionStatus возвращает true, если переход from -> to допустим
func CanTransitionStatus(from, to BookingStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionStatus валидирует переход статуса бронирования.
// Возвращает ErrInvalidTransition для недопустимого перехода, до каких-либо
// обращений к хранилищу.
func TransitionStatus(from, to BookingStatus) error {
	if !ValidStatus(from) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, from)
	}
	if !ValidStatus(to) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	if !CanTransitionStatus(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// TransitionPayment валидирует переход статуса оплаты
func TransitionPayment(from, to PaymentStatus) error {
	if !ValidPaymentStatus(from) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, from)
	}
	if !ValidPaymentStatus(to) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	for _, next := range paymentTransitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// AvailableStatuses возвращает список допустимых следующих статусов
func AvailableStatuses(current BookingStatus) []BookingStatus {
	next := statusTransitions[current]
	out := make([]BookingStatus, len(next))
	copy(out, next)
	return out
}

// AvailablePaymentStatuses возвращает список допустимых следующих статусов оплаты
func AvailablePaymentStatuses(current PaymentStatus) []PaymentStatus {
	next := paymentTransitions[current]
	out := make([]PaymentStatus, len(next))
	copy(out, next)
	return out
}

// IsTerminalStatus возвращает true для терминального статуса
func IsTerminalStatus(s BookingStatus) bool {
	return ValidStatus(s) && len(statusTransitions[s]) == 0
}

// StatusLabel возвращает отображаемое название статуса
func StatusLabel(s BookingStatus) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// PaymentStatusLabel возвращает отображаемое название статуса оплаты
func PaymentStatusLabel(s PaymentStatus) string {
	if label, ok := paymentLabels[s]; ok {
		return label
	}
	return string(s)
}

// CompletionPaymentWarning возвращает true, если завершение бронирования при
// текущем статусе оплаты заслуживает предупреждения (услуга платная, а оплата
// не началась). Это рекомендательная проверка: блокировать переход или нет,
// решает вызывающая сторона.
func CompletionPaymentWarning(payment PaymentStatus, totalPrice float64) bool {
	return totalPrice > 0 && payment == PaymentUnpaid
}
