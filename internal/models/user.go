package models

type User struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Name         string `gorm:"not null"`
	// EmailNotifications gates the email channel; in-app notifications are
	// always persisted regardless.
	EmailNotifications bool `gorm:"default:true"`

	// Relations
	IssuedInvoices   []Invoice `gorm:"foreignKey:IssuerID"`
	ReceivedInvoices []Invoice `gorm:"foreignKey:DebtorID"`
}
