package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel
	// The unique index backstops the check-then-insert sequence in the
	// scanners: two overlapping scans cannot both insert the same
	// (user, invoice, type) row.
	UserID    string           `gorm:"not null;index;uniqueIndex:idx_notifications_user_invoice_type"`
	InvoiceID string           `gorm:"not null;index;uniqueIndex:idx_notifications_user_invoice_type"`
	Type      NotificationType `gorm:"type:varchar(30);not null;uniqueIndex:idx_notifications_user_invoice_type"`
	// Data holds a display snapshot taken at emit time
	// {"invoice_number": "...", "amount": ..., "issuer_name": "..."}
	Data   datatypes.JSON `gorm:"type:jsonb"`
	IsRead bool           `gorm:"default:false"`
	ReadAt *time.Time

	// Relations
	Invoice *Invoice `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}
