package models

type Payment struct {
	BaseModel
	InvoiceID string `gorm:"not null;index"`
	Amount    float64
	Currency  string `gorm:"type:varchar(3)"`
	// Provider and ProviderRef identify the charge at the external card
	// processor.
	Provider    string        `gorm:"type:varchar(30)"`
	ProviderRef string        `gorm:"index"`
	Status      PaymentStatus `gorm:"type:varchar(20);default:'pending'"`

	Invoice *Invoice `gorm:"foreignKey:InvoiceID"`
}
