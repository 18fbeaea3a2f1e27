package repositories

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"clutchpay_backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// openTestDB gives each test its own in-memory database with the full schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Invoice{},
		&models.Notification{},
		&models.Payment{},
	))

	return db
}

var seq atomic.Int64

func createTestUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	user := &models.User{
		Email:              fmt.Sprintf("%s-%d@example.com", name, seq.Add(1)),
		PasswordHash:       "x",
		Name:               name,
		EmailNotifications: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestInvoice(t *testing.T, db *gorm.DB, issuer, debtor *models.User, status models.InvoiceStatus, dueDate *time.Time) *models.Invoice {
	t.Helper()

	invoice := &models.Invoice{
		InvoiceNumber: fmt.Sprintf("INV-TEST-%d", seq.Add(1)),
		IssuerID:      issuer.ID,
		DebtorID:      debtor.ID,
		Amount:        99.90,
		Currency:      "EUR",
		Subject:       "Test work",
		Status:        status,
		DueDate:       dueDate,
	}
	require.NoError(t, db.Create(invoice).Error)
	return invoice
}

func timePtr(tm time.Time) *time.Time { return &tm }
