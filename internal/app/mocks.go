package app

import "clutchpay_backend/internal/email"

// MockEmailProvider is used for local development when SMTP is not
// configured. Notifications still land in the database.
type MockEmailProvider struct{}

func (m *MockEmailProvider) Send(msg *email.Email) error { return nil }
func (m *MockEmailProvider) SendTemplate(to []string, subject, templateName string, data interface{}) error {
	return nil
}
func (m *MockEmailProvider) SendPaymentDueReminder(to string, data email.PaymentDueData) error {
	return nil
}
func (m *MockEmailProvider) SendPaymentOverdueAlert(to string, data email.PaymentOverdueData) error {
	return nil
}
func (m *MockEmailProvider) SendInvoiceIssued(to string, data email.InvoiceIssuedData) error {
	return nil
}
func (m *MockEmailProvider) SendPaymentReceived(to string, data email.PaymentReceivedData) error {
	return nil
}
func (m *MockEmailProvider) SendInvoiceCanceled(to string, data email.InvoiceCanceledData) error {
	return nil
}
