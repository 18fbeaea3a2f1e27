package repositories

import (
	"errors"
	"time"

	"clutchpay_backend/internal/models"

	"gorm.io/gorm"
)

var ErrInvoiceNotFound = errors.New("invoice not found")

// scannableStatuses are the invoice states the due and overdue scanners look
// at. Paid and canceled invoices never generate reminders.
var scannableStatuses = []models.InvoiceStatus{
	models.InvoiceStatusPending,
	models.InvoiceStatusOverdue,
}

type InvoiceRepository interface {
	Create(invoice *models.Invoice) error
	FindByID(id string) (*models.Invoice, error)
	FindUserInvoices(userID string, criteria InvoiceCriteria) ([]models.Invoice, int64, error)
	UpdateStatus(id string, status models.InvoiceStatus) error
	MarkPaid(id string, paidAt time.Time) error

	// FindDueBetween returns unpaid invoices whose due date falls inside the
	// closed window [from, to], debtor and issuer preloaded.
	FindDueBetween(from, to time.Time) ([]models.Invoice, error)
	// FindOverdue returns unpaid invoices whose due date is strictly before
	// the given instant, debtor and issuer preloaded.
	FindOverdue(before time.Time) ([]models.Invoice, error)
}

type InvoiceRepositoryImpl struct {
	db *gorm.DB
}

// InvoiceCriteria filters a user's invoice listing.
type InvoiceCriteria struct {
	Role     string               `form:"role"` // "issuer", "debtor" or empty for both
	Status   models.InvoiceStatus `form:"status"`
	Page     int                  `form:"page" binding:"min=1"`
	PageSize int                  `form:"page_size" binding:"min=1,max=100"`
}

func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &InvoiceRepositoryImpl{db: db}
}

func (r *InvoiceRepositoryImpl) Create(invoice *models.Invoice) error {
	return r.db.Create(invoice).Error
}

func (r *InvoiceRepositoryImpl) FindByID(id string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.Preload("Issuer").Preload("Debtor").
		First(&invoice, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *InvoiceRepositoryImpl) FindUserInvoices(userID string, criteria InvoiceCriteria) ([]models.Invoice, int64, error) {
	var invoices []models.Invoice

	query := r.db.Model(&models.Invoice{})
	switch criteria.Role {
	case "issuer":
		query = query.Where("issuer_id = ?", userID)
	case "debtor":
		query = query.Where("debtor_id = ?", userID)
	default:
		query = query.Where("issuer_id = ? OR debtor_id = ?", userID, userID)
	}

	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := criteria.PageSize
	offset := (criteria.Page - 1) * criteria.PageSize

	err := query.Preload("Issuer").Preload("Debtor").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&invoices).Error

	return invoices, total, err
}

func (r *InvoiceRepositoryImpl) UpdateStatus(id string, status models.InvoiceStatus) error {
	result := r.db.Model(&models.Invoice{}).Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}

func (r *InvoiceRepositoryImpl) MarkPaid(id string, paidAt time.Time) error {
	result := r.db.Model(&models.Invoice{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":  models.InvoiceStatusPaid,
		"paid_at": paidAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}

func (r *InvoiceRepositoryImpl) FindDueBetween(from, to time.Time) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.Preload("Issuer").Preload("Debtor").
		Where("status IN ?", scannableStatuses).
		Where("due_date IS NOT NULL").
		Where("due_date >= ? AND due_date <= ?", from, to).
		Find(&invoices).Error
	return invoices, err
}

func (r *InvoiceRepositoryImpl) FindOverdue(before time.Time) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := r.db.Preload("Issuer").Preload("Debtor").
		Where("status IN ?", scannableStatuses).
		Where("due_date IS NOT NULL").
		Where("due_date < ?", before).
		Find(&invoices).Error
	return invoices, err
}
