package services

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"clutchpay_backend/internal/email"
	"clutchpay_backend/internal/logger"
	"clutchpay_backend/internal/models"
	"clutchpay_backend/internal/repositories"

	"gorm.io/datatypes"
)

// ReminderService drives the payment-lifecycle reminders. The three entry
// points are invoked periodically by the background worker, or on demand by
// the scheduler trigger endpoint; each one queries, dedups, persists and
// dispatches on its own, so re-invocation is always safe.
type ReminderService interface {
	// CheckAndNotifyPaymentDue notifies debtors whose invoices fall due
	// inside the rolling window [now, now+daysAhead days]; returns the
	// number of notifications newly created.
	CheckAndNotifyPaymentDue(daysAhead int) (int, error)

	// CheckAndNotifyPaymentOverdue notifies debtors whose unpaid invoices
	// are past due; returns the number of notifications newly created.
	CheckAndNotifyPaymentOverdue() (int, error)

	// CleanupOldReadNotifications deletes notifications that are both read
	// and untouched for more than olderThanDays days; returns the deletion
	// count. Unread notifications are never deleted.
	CleanupOldReadNotifications(olderThanDays int) (int64, error)
}

type reminderService struct {
	invoiceRepo      repositories.InvoiceRepository
	notificationRepo repositories.NotificationRepository
	mailer           email.Provider
	baseURL          string

	// now is swapped out in tests to pin window boundaries.
	now func() time.Time
}

func NewReminderService(
	invoiceRepo repositories.InvoiceRepository,
	notificationRepo repositories.NotificationRepository,
	mailer email.Provider,
	baseURL string,
) ReminderService {
	return &reminderService{
		invoiceRepo:      invoiceRepo,
		notificationRepo: notificationRepo,
		mailer:           mailer,
		baseURL:          baseURL,
		now:              time.Now,
	}
}

func (s *reminderService) CheckAndNotifyPaymentDue(daysAhead int) (int, error) {
	now := s.now()
	// Rolling window anchored at the invocation instant, not at midnight:
	// daysAhead=3 means "due within the next 72 hours".
	windowEnd := now.AddDate(0, 0, daysAhead)

	invoices, err := s.invoiceRepo.FindDueBetween(now, windowEnd)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := range invoices {
		invoice := &invoices[i]
		if invoice.DueDate == nil {
			continue
		}

		exists, err := s.notificationRepo.ExistsForInvoice(invoice.DebtorID, invoice.ID, models.NotificationTypePaymentDue)
		if err != nil {
			return 0, err
		}
		if exists {
			continue
		}

		data := email.PaymentDueData{
			TemplateData: email.TemplateData{
				ActionURL:  s.invoiceURL(invoice.ID),
				ActionText: "View invoice",
			},
			InvoiceNumber: invoice.InvoiceNumber,
			Amount:        invoice.Amount,
			Currency:      invoice.Currency,
			DueDate:       invoice.DueDate.Format("2006-01-02"),
			DaysUntilDue:  daysUntilDue(now, *invoice.DueDate),
		}
		if invoice.Issuer != nil {
			data.IssuerName = invoice.Issuer.Name
		}
		if invoice.Debtor != nil {
			data.UserName = invoice.Debtor.Name
		}

		err = s.dispatch(invoice, models.NotificationTypePaymentDue, func(to string) error {
			return s.mailer.SendPaymentDueReminder(to, data)
		})
		if err != nil {
			return 0, err
		}
		count++
	}

	return count, nil
}

func (s *reminderService) CheckAndNotifyPaymentOverdue() (int, error) {
	now := s.now()

	invoices, err := s.invoiceRepo.FindOverdue(now)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := range invoices {
		invoice := &invoices[i]
		if invoice.DueDate == nil {
			continue
		}

		exists, err := s.notificationRepo.ExistsForInvoice(invoice.DebtorID, invoice.ID, models.NotificationTypePaymentOverdue)
		if err != nil {
			return 0, err
		}
		if exists {
			continue
		}

		data := email.PaymentOverdueData{
			TemplateData: email.TemplateData{
				ActionURL:  s.invoiceURL(invoice.ID),
				ActionText: "Pay now",
			},
			InvoiceNumber: invoice.InvoiceNumber,
			Amount:        invoice.Amount,
			Currency:      invoice.Currency,
			DueDate:       invoice.DueDate.Format("2006-01-02"),
			DaysOverdue:   daysOverdue(now, *invoice.DueDate),
		}
		if invoice.Issuer != nil {
			data.IssuerName = invoice.Issuer.Name
		}
		if invoice.Debtor != nil {
			data.UserName = invoice.Debtor.Name
		}

		err = s.dispatch(invoice, models.NotificationTypePaymentOverdue, func(to string) error {
			return s.mailer.SendPaymentOverdueAlert(to, data)
		})
		if err != nil {
			return 0, err
		}
		count++
	}

	return count, nil
}

func (s *reminderService) CleanupOldReadNotifications(olderThanDays int) (int64, error) {
	cutoff := s.now().AddDate(0, 0, -olderThanDays)
	return s.notificationRepo.DeleteReadOlderThan(cutoff)
}

// dispatch persists the notification row, then attempts the email when the
// debtor opted in. The row is the durable channel: an email failure is logged
// and swallowed, it never retracts the persisted notification or aborts the
// scan.
func (s *reminderService) dispatch(invoice *models.Invoice, nType models.NotificationType, sendEmail func(to string) error) error {
	notification := &models.Notification{
		UserID:    invoice.DebtorID,
		InvoiceID: invoice.ID,
		Type:      nType,
		Data:      notificationPayload(invoice),
		IsRead:    false,
	}

	if err := s.notificationRepo.CreateNotification(notification); err != nil {
		return err
	}

	if invoice.Debtor != nil && invoice.Debtor.EmailNotifications {
		if err := sendEmail(invoice.Debtor.Email); err != nil {
			logger.Warn("reminder email failed",
				"invoice_id", invoice.ID,
				"type", string(nType),
				"error", err.Error(),
			)
		}
	}

	return nil
}

func (s *reminderService) invoiceURL(invoiceID string) string {
	return fmt.Sprintf("%s/invoices/%s", s.baseURL, invoiceID)
}

// notificationPayload snapshots the invoice display fields at emit time.
func notificationPayload(invoice *models.Invoice) datatypes.JSON {
	payload := map[string]interface{}{
		"invoice_number": invoice.InvoiceNumber,
		"amount":         invoice.Amount,
		"currency":       invoice.Currency,
		"subject":        invoice.Subject,
	}
	if invoice.Issuer != nil {
		payload["issuer_name"] = invoice.Issuer.Name
	}
	if invoice.DueDate != nil {
		payload["due_date"] = invoice.DueDate.Format("2006-01-02")
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

// daysUntilDue rounds up: an invoice due in 2.5 days is "due in 3 days".
func daysUntilDue(now, dueDate time.Time) int {
	return int(math.Ceil(dueDate.Sub(now).Hours() / 24))
}

// daysOverdue rounds down: an invoice 2.5 days late is "2 days overdue".
func daysOverdue(now, dueDate time.Time) int {
	return int(math.Floor(now.Sub(dueDate).Hours() / 24))
}
