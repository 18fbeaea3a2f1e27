package dto

import (
	"time"

	"clutchpay_backend/internal/models"
)

// NotificationResponse is a stored notification plus its computed display
// message.
type NotificationResponse struct {
	ID            string                  `json:"id"`
	UserID        string                  `json:"user_id"`
	InvoiceID     string                  `json:"invoice_id"`
	Type          models.NotificationType `json:"type"`
	Message       string                  `json:"message"`
	Data          map[string]interface{}  `json:"data,omitempty"`
	IsRead        bool                    `json:"is_read"`
	ReadAt        *time.Time              `json:"read_at,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
	InvoiceNumber string                  `json:"invoice_number,omitempty"`
}

// NotificationListResponse is a paginated notification listing.
type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int64                   `json:"total"`
	Page          int                     `json:"page"`
	PageSize      int                     `json:"page_size"`
	TotalPages    int                     `json:"total_pages"`
}
