package dto

import (
	"time"

	"clutchpay_backend/internal/models"
)

// CreateInvoiceRequest issues a new invoice to another registered user.
type CreateInvoiceRequest struct {
	DebtorEmail string     `json:"debtor_email" binding:"required,email"`
	Amount      float64    `json:"amount" binding:"required,gt=0"`
	Currency    string     `json:"currency" binding:"omitempty,len=3"`
	Subject     string     `json:"subject" binding:"required,max=200"`
	DueDate     *time.Time `json:"due_date"`
	PdfKey      string     `json:"pdf_key"`
}

// PayInvoiceRequest records a card-processor charge against an invoice.
type PayInvoiceRequest struct {
	Provider    string `json:"provider" binding:"required"`
	ProviderRef string `json:"provider_ref" binding:"required"`
}

// InvoiceResponse is the API view of an invoice.
type InvoiceResponse struct {
	ID            string               `json:"id"`
	InvoiceNumber string               `json:"invoice_number"`
	IssuerID      string               `json:"issuer_id"`
	IssuerName    string               `json:"issuer_name,omitempty"`
	DebtorID      string               `json:"debtor_id"`
	DebtorName    string               `json:"debtor_name,omitempty"`
	Amount        float64              `json:"amount"`
	Currency      string               `json:"currency"`
	Subject       string               `json:"subject"`
	Status        models.InvoiceStatus `json:"status"`
	DueDate       *time.Time           `json:"due_date,omitempty"`
	PaidAt        *time.Time           `json:"paid_at,omitempty"`
	PdfKey        string               `json:"pdf_key,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

// InvoiceListResponse is a paginated invoice listing.
type InvoiceListResponse struct {
	Invoices   []*InvoiceResponse `json:"invoices"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

// SchedulerRunResponse aggregates the counts from a manual scheduler trigger.
type SchedulerRunResponse struct {
	DueNotified     *int   `json:"due_notified,omitempty"`
	OverdueNotified *int   `json:"overdue_notified,omitempty"`
	CleanedUp       *int64 `json:"cleaned_up,omitempty"`
}
