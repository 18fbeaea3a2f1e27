package email

// Provider is the outbound email transport. Callers treat every send as
// best-effort; a persisted notification is the durable channel.
type Provider interface {
	// Send dispatches a prepared message.
	Send(email *Email) error

	// SendTemplate renders templateName with data and sends the result.
	SendTemplate(to []string, subject, templateName string, data interface{}) error

	// Typed helpers, one per notification email.
	SendPaymentDueReminder(to string, data PaymentDueData) error
	SendPaymentOverdueAlert(to string, data PaymentOverdueData) error
	SendInvoiceIssued(to string, data InvoiceIssuedData) error
	SendPaymentReceived(to string, data PaymentReceivedData) error
	SendInvoiceCanceled(to string, data InvoiceCanceledData) error
}
