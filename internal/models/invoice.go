package models

import "time"

type Invoice struct {
	BaseModel
	InvoiceNumber string `gorm:"uniqueIndex;not null"`
	IssuerID      string `gorm:"not null;index"`
	DebtorID      string `gorm:"not null;index"`
	Amount        float64
	Currency      string        `gorm:"type:varchar(3);default:'EUR'"`
	Subject       string        `gorm:"not null"`
	Status        InvoiceStatus `gorm:"type:varchar(20);default:'pending';index"`
	// DueDate is optional; invoices without one are never picked up by the
	// due or overdue scanners.
	DueDate *time.Time
	PaidAt  *time.Time
	// PdfKey points at the attached document in object storage.
	PdfKey string

	// Relations
	Issuer *User `gorm:"foreignKey:IssuerID"`
	Debtor *User `gorm:"foreignKey:DebtorID"`
}
