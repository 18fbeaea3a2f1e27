package email

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
)

// Template names, one per notification email.
const (
	TemplatePaymentDue      = "payment_due"
	TemplatePaymentOverdue  = "payment_overdue"
	TemplateInvoiceIssued   = "invoice_issued"
	TemplatePaymentReceived = "payment_received"
	TemplateInvoiceCanceled = "invoice_canceled"
)

// TemplateManager loads and renders the email templates.
type TemplateManager struct {
	templates map[string]*template.Template
	config    Config
}

// NewTemplateManager loads all known templates, falling back to the built-in
// versions when the templates directory has no override.
func NewTemplateManager(config Config) (*TemplateManager, error) {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
		config:    config,
	}

	names := []string{
		TemplatePaymentDue,
		TemplatePaymentOverdue,
		TemplateInvoiceIssued,
		TemplatePaymentReceived,
		TemplateInvoiceCanceled,
	}

	for _, name := range names {
		tpl, err := tm.loadTemplate(name)
		if err != nil {
			return nil, fmt.Errorf("failed to load template %s: %w", name, err)
		}
		tm.templates[name] = tpl
	}

	return tm, nil
}

func (tm *TemplateManager) loadTemplate(name string) (*template.Template, error) {
	if tm.config.TemplatePath != "" {
		contentPath := filepath.Join(tm.config.TemplatePath, name+".html")
		if tpl, err := template.ParseFiles(contentPath); err == nil {
			return tpl, nil
		}
	}
	return tm.getBuiltinTemplate(name)
}

func (tm *TemplateManager) getBuiltinTemplate(name string) (*template.Template, error) {
	var tplText string

	switch name {
	case TemplatePaymentDue:
		tplText = paymentDueTemplate
	case TemplatePaymentOverdue:
		tplText = paymentOverdueTemplate
	case TemplateInvoiceIssued:
		tplText = invoiceIssuedTemplate
	case TemplatePaymentReceived:
		tplText = paymentReceivedTemplate
	case TemplateInvoiceCanceled:
		tplText = invoiceCanceledTemplate
	default:
		return nil, fmt.Errorf("unknown template: %s", name)
	}

	return template.New(name).Parse(tplText)
}

// Render renders a template with the given data.
func (tm *TemplateManager) Render(templateName string, data interface{}) (string, error) {
	tpl, exists := tm.templates[templateName]
	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}

	return buf.String(), nil
}

// Built-in fallback templates.
const (
	paymentDueTemplate = `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Payment reminder</title></head>
<body>
    <h1>Hi {{.UserName}},</h1>
    <p>Invoice <strong>{{.InvoiceNumber}}</strong> from {{.IssuerName}} is due in {{.DaysUntilDue}} day(s), on {{.DueDate}}.</p>
    <p>Amount due: <strong>{{.Amount}} {{.Currency}}</strong></p>
    {{if .ActionURL}}
    <a href="{{.ActionURL}}" style="background-color: #007bff; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">{{.ActionText}}</a>
    {{end}}
</body>
</html>`

	paymentOverdueTemplate = `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Payment overdue</title></head>
<body>
    <h1>Hi {{.UserName}},</h1>
    <p>Invoice <strong>{{.InvoiceNumber}}</strong> from {{.IssuerName}} was due on {{.DueDate}} and is now <strong>{{.DaysOverdue}} day(s) overdue</strong>.</p>
    <p>Amount due: <strong>{{.Amount}} {{.Currency}}</strong></p>
    {{if .ActionURL}}
    <a href="{{.ActionURL}}" style="background-color: #dc3545; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">{{.ActionText}}</a>
    {{end}}
</body>
</html>`

	invoiceIssuedTemplate = `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>New invoice</title></head>
<body>
    <h1>Hi {{.UserName}},</h1>
    <p>{{.IssuerName}} issued you invoice <strong>{{.InvoiceNumber}}</strong> for <strong>{{.Amount}} {{.Currency}}</strong>{{if .DueDate}}, due on {{.DueDate}}{{end}}.</p>
    {{if .ActionURL}}
    <a href="{{.ActionURL}}" style="background-color: #007bff; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">{{.ActionText}}</a>
    {{end}}
</body>
</html>`

	paymentReceivedTemplate = `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Payment received</title></head>
<body>
    <h1>Hi {{.UserName}},</h1>
    <p>{{.DebtorName}} paid invoice <strong>{{.InvoiceNumber}}</strong>. <strong>{{.Amount}} {{.Currency}}</strong> is on its way to you.</p>
    {{if .ActionURL}}
    <a href="{{.ActionURL}}" style="background-color: #28a745; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">{{.ActionText}}</a>
    {{end}}
</body>
</html>`

	invoiceCanceledTemplate = `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>Invoice canceled</title></head>
<body>
    <h1>Hi {{.UserName}},</h1>
    <p>{{.IssuerName}} canceled invoice <strong>{{.InvoiceNumber}}</strong>. No payment is required.</p>
</body>
</html>`
)
