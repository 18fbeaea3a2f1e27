package services

// ServiceContainer bundles all services for wiring in app and handlers.
type ServiceContainer struct {
	AuthService         AuthService
	InvoiceService      InvoiceService
	NotificationService NotificationService
	ReminderService     ReminderService
}
