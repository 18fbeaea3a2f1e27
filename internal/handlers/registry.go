package handlers

import (
	"clutchpay_backend/internal/config"
	"clutchpay_backend/internal/services"
	"clutchpay_backend/internal/validator"
)

// AppHandlers bundles every HTTP handler for route registration.
type AppHandlers struct {
	Auth         *AuthHandler
	Invoice      *InvoiceHandler
	Notification *NotificationHandler
	Scheduler    *SchedulerHandler
}

func NewAppHandlers(container *services.ServiceContainer, v *validator.Validator, cfg *config.Config) *AppHandlers {
	base := NewBaseHandler(v)

	return &AppHandlers{
		Auth:         NewAuthHandler(base, container.AuthService),
		Invoice:      NewInvoiceHandler(base, container.InvoiceService),
		Notification: NewNotificationHandler(base, container.NotificationService),
		Scheduler:    NewSchedulerHandler(base, container.ReminderService, cfg.Scheduler),
	}
}
