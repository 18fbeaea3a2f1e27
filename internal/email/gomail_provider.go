package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// GomailProvider implements Provider over an SMTP dialer.
type GomailProvider struct {
	config    Config
	templates *TemplateManager
	dialer    *gomail.Dialer
}

// NewGomailProvider builds the SMTP-backed provider.
func NewGomailProvider(config Config) (Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid email config: %w", err)
	}

	tm, err := NewTemplateManager(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create template manager: %w", err)
	}

	return &GomailProvider{
		config:    config,
		templates: tm,
		dialer:    gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.Username, config.Password),
	}, nil
}

// Send dispatches a prepared message through SMTP.
func (p *GomailProvider) Send(email *Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.config.FromEmail, p.config.FromName)
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)

	if email.HTMLBody != "" {
		m.SetBody("text/html", email.HTMLBody)
		if email.Body != "" {
			m.AddAlternative("text/plain", email.Body)
		}
	} else {
		m.SetBody("text/plain", email.Body)
	}

	return p.dialer.DialAndSend(m)
}

// SendTemplate renders and sends a templated message.
func (p *GomailProvider) SendTemplate(to []string, subject, templateName string, data interface{}) error {
	htmlBody, err := p.templates.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	return p.Send(&Email{
		To:       to,
		Subject:  subject,
		HTMLBody: htmlBody,
	})
}

func (p *GomailProvider) SendPaymentDueReminder(to string, data PaymentDueData) error {
	data.Subject = fmt.Sprintf("Payment reminder: invoice %s", data.InvoiceNumber)
	data.SupportEmail = p.config.FromEmail
	return p.SendTemplate([]string{to}, data.Subject, TemplatePaymentDue, data)
}

func (p *GomailProvider) SendPaymentOverdueAlert(to string, data PaymentOverdueData) error {
	data.Subject = fmt.Sprintf("Payment overdue: invoice %s", data.InvoiceNumber)
	data.SupportEmail = p.config.FromEmail
	return p.SendTemplate([]string{to}, data.Subject, TemplatePaymentOverdue, data)
}

func (p *GomailProvider) SendInvoiceIssued(to string, data InvoiceIssuedData) error {
	data.Subject = fmt.Sprintf("New invoice %s from %s", data.InvoiceNumber, data.IssuerName)
	data.SupportEmail = p.config.FromEmail
	return p.SendTemplate([]string{to}, data.Subject, TemplateInvoiceIssued, data)
}

func (p *GomailProvider) SendPaymentReceived(to string, data PaymentReceivedData) error {
	data.Subject = fmt.Sprintf("Invoice %s was paid", data.InvoiceNumber)
	data.SupportEmail = p.config.FromEmail
	return p.SendTemplate([]string{to}, data.Subject, TemplatePaymentReceived, data)
}

func (p *GomailProvider) SendInvoiceCanceled(to string, data InvoiceCanceledData) error {
	data.Subject = fmt.Sprintf("Invoice %s was canceled", data.InvoiceNumber)
	data.SupportEmail = p.config.FromEmail
	return p.SendTemplate([]string{to}, data.Subject, TemplateInvoiceCanceled, data)
}
