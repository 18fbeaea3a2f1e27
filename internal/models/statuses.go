package models

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending  InvoiceStatus = "pending"
	InvoiceStatusOverdue  InvoiceStatus = "overdue"
	InvoiceStatusPaid     InvoiceStatus = "paid"
	InvoiceStatusCanceled InvoiceStatus = "canceled"
)

// NotificationType tags a notification row with the lifecycle event it reports.
type NotificationType string

const (
	NotificationTypePaymentDue      NotificationType = "payment_due"
	NotificationTypePaymentOverdue  NotificationType = "payment_overdue"
	NotificationTypeInvoiceIssued   NotificationType = "invoice_issued"
	NotificationTypePaymentReceived NotificationType = "payment_received"
	NotificationTypeInvoiceCanceled NotificationType = "invoice_canceled"
)

// PaymentStatus is the state of a card-processor charge.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)
