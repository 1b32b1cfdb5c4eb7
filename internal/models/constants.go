package models

import "time"

const (
	KindFlight  = "flight"
	KindHotel   = "hotel"
	KindCar     = "car"
	KindProduct = "product"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

const (
	RequestPending   = "pending"
	RequestConfirmed = "confirmed"
	RequestRejected  = "rejected"
)

const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

const (
	// DefaultReminderTick интервал сканирования снапшота планировщиком
	DefaultReminderTick = 60 * time.Second

	// DefaultReminderLead за сколько до начала брони срабатывает напоминание
	DefaultReminderLead = 24 * time.Hour

	// DefaultReminderTolerance допуск вокруг 24-часовой отметки
	DefaultReminderTolerance = 30 * time.Minute

	// DefaultRebookingDelay задержка подтверждения перебронирования
	DefaultRebookingDelay = 2 * time.Second

	// DefaultRefundSLADays срок возврата средств в рабочих днях
	DefaultRefundSLADays = 5

	// DefaultSnapshotTTL время жизни снапшота состояния в Redis
	DefaultSnapshotTTL = 7 * 24 * time.Hour

	// ProductCompletionAfter товарная бронь считается завершённой через 30 дней
	ProductCompletionAfter = 30 * 24 * time.Hour

	// RebookingRateLimit количество запросов перебронирования в секунду
	DefaultRebookingRateLimit = 1.0

	// DefaultRebookingRateBurst допустимый всплеск запросов
	DefaultRebookingRateBurst = 5
)
