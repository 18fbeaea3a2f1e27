package email

import "fmt"

// Email is an outbound message.
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// Config holds the SMTP transport settings.
type Config struct {
	SMTPHost     string
	SMTPPort     int
	Username     string
	Password     string
	FromEmail    string
	FromName     string
	TemplatePath string
}

// Validate checks the transport settings.
func (c Config) Validate() error {
	if c.SMTPHost == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", c.SMTPPort)
	}
	if c.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

// TemplateData is the base payload shared by all email templates.
type TemplateData struct {
	UserName     string
	Subject      string
	ActionURL    string
	ActionText   string
	SupportEmail string
}

// PaymentDueData feeds the due-reminder template.
type PaymentDueData struct {
	TemplateData
	InvoiceNumber string
	IssuerName    string
	Amount        float64
	Currency      string
	DueDate       string
	DaysUntilDue  int
}

// PaymentOverdueData feeds the overdue-alert template.
type PaymentOverdueData struct {
	TemplateData
	InvoiceNumber string
	IssuerName    string
	Amount        float64
	Currency      string
	DueDate       string
	DaysOverdue   int
}

// InvoiceIssuedData feeds the new-invoice template.
type InvoiceIssuedData struct {
	TemplateData
	InvoiceNumber string
	IssuerName    string
	Amount        float64
	Currency      string
	DueDate       string
}

// PaymentReceivedData feeds the payment-confirmation template sent to the issuer.
type PaymentReceivedData struct {
	TemplateData
	InvoiceNumber string
	DebtorName    string
	Amount        float64
	Currency      string
}

// InvoiceCanceledData feeds the cancellation template.
type InvoiceCanceledData struct {
	TemplateData
	InvoiceNumber string
	IssuerName    string
}
