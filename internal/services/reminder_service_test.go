package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"clutchpay_backend/internal/email"
	"clutchpay_backend/internal/models"
	"clutchpay_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scanClock is the pinned invocation instant for every scanner test.
var scanClock = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// --- fakes ---

type fakeInvoiceRepo struct {
	invoices []models.Invoice
	findErr  error
}

func (r *fakeInvoiceRepo) Create(invoice *models.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = fmt.Sprintf("inv-%d", len(r.invoices)+1)
	}
	r.invoices = append(r.invoices, *invoice)
	return nil
}
func (r *fakeInvoiceRepo) FindByID(id string) (*models.Invoice, error) {
	for i := range r.invoices {
		if r.invoices[i].ID == id {
			return &r.invoices[i], nil
		}
	}
	return nil, repositories.ErrInvoiceNotFound
}
func (r *fakeInvoiceRepo) FindUserInvoices(userID string, criteria repositories.InvoiceCriteria) ([]models.Invoice, int64, error) {
	return nil, 0, nil
}
func (r *fakeInvoiceRepo) UpdateStatus(id string, status models.InvoiceStatus) error { return nil }
func (r *fakeInvoiceRepo) MarkPaid(id string, paidAt time.Time) error                { return nil }

func (r *fakeInvoiceRepo) FindDueBetween(from, to time.Time) ([]models.Invoice, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []models.Invoice
	for _, inv := range r.invoices {
		if !scannable(inv.Status) || inv.DueDate == nil {
			continue
		}
		if inv.DueDate.Before(from) || inv.DueDate.After(to) {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

func (r *fakeInvoiceRepo) FindOverdue(before time.Time) ([]models.Invoice, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []models.Invoice
	for _, inv := range r.invoices {
		if !scannable(inv.Status) || inv.DueDate == nil {
			continue
		}
		if inv.DueDate.Before(before) {
			out = append(out, inv)
		}
	}
	return out, nil
}

func scannable(status models.InvoiceStatus) bool {
	return status == models.InvoiceStatusPending || status == models.InvoiceStatusOverdue
}

type fakeNotificationRepo struct {
	rows      []models.Notification
	existsErr error
	createErr error
}

func (r *fakeNotificationRepo) CreateNotification(n *models.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, row := range r.rows {
		if row.UserID == n.UserID && row.InvoiceID == n.InvoiceID && row.Type == n.Type {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	n.ID = fmt.Sprintf("n-%d", len(r.rows)+1)
	r.rows = append(r.rows, *n)
	return nil
}

func (r *fakeNotificationRepo) FindNotificationByID(id string) (*models.Notification, error) {
	for i := range r.rows {
		if r.rows[i].ID == id {
			return &r.rows[i], nil
		}
	}
	return nil, repositories.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) FindUserNotifications(userID string, criteria repositories.NotificationCriteria) ([]models.Notification, int64, error) {
	return nil, 0, nil
}
func (r *fakeNotificationRepo) MarkAsRead(notificationID string) error { return nil }
func (r *fakeNotificationRepo) MarkAllAsRead(userID string) error      { return nil }
func (r *fakeNotificationRepo) DeleteNotification(id string) error     { return nil }
func (r *fakeNotificationRepo) GetUnreadCount(userID string) (int64, error) {
	return 0, nil
}

func (r *fakeNotificationRepo) ExistsForInvoice(userID, invoiceID string, nType models.NotificationType) (bool, error) {
	if r.existsErr != nil {
		return false, r.existsErr
	}
	for _, row := range r.rows {
		if row.UserID == userID && row.InvoiceID == invoiceID && row.Type == nType {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeNotificationRepo) DeleteReadOlderThan(cutoff time.Time) (int64, error) {
	var kept []models.Notification
	var deleted int64
	for _, row := range r.rows {
		if row.IsRead && row.UpdatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, row)
	}
	r.rows = kept
	return deleted, nil
}

type fakeMailer struct {
	dueSent     []email.PaymentDueData
	overdueSent []email.PaymentOverdueData
	recipients  []string
	sendErr     error
}

func (m *fakeMailer) Send(msg *email.Email) error { return nil }
func (m *fakeMailer) SendTemplate(to []string, subject, templateName string, data interface{}) error {
	return nil
}
func (m *fakeMailer) SendPaymentDueReminder(to string, data email.PaymentDueData) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.recipients = append(m.recipients, to)
	m.dueSent = append(m.dueSent, data)
	return nil
}
func (m *fakeMailer) SendPaymentOverdueAlert(to string, data email.PaymentOverdueData) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.recipients = append(m.recipients, to)
	m.overdueSent = append(m.overdueSent, data)
	return nil
}
func (m *fakeMailer) SendInvoiceIssued(to string, data email.InvoiceIssuedData) error   { return nil }
func (m *fakeMailer) SendPaymentReceived(to string, data email.PaymentReceivedData) error {
	return nil
}
func (m *fakeMailer) SendInvoiceCanceled(to string, data email.InvoiceCanceledData) error {
	return nil
}

// --- fixtures ---

func newReminderFixture(invoices ...models.Invoice) (*reminderService, *fakeInvoiceRepo, *fakeNotificationRepo, *fakeMailer) {
	invoiceRepo := &fakeInvoiceRepo{invoices: invoices}
	notificationRepo := &fakeNotificationRepo{}
	mailer := &fakeMailer{}

	svc := NewReminderService(invoiceRepo, notificationRepo, mailer, "https://app.clutchpay.test").(*reminderService)
	svc.now = func() time.Time { return scanClock }

	return svc, invoiceRepo, notificationRepo, mailer
}

func testInvoice(id string, dueIn time.Duration, status models.InvoiceStatus) models.Invoice {
	due := scanClock.Add(dueIn)
	return models.Invoice{
		BaseModel:     models.BaseModel{ID: id},
		InvoiceNumber: "INV-20250601-" + id,
		IssuerID:      "issuer-1",
		DebtorID:      "debtor-1",
		Amount:        150.50,
		Currency:      "EUR",
		Subject:       "Consulting",
		Status:        status,
		DueDate:       &due,
		Issuer:        &models.User{BaseModel: models.BaseModel{ID: "issuer-1"}, Name: "Alice", Email: "alice@example.com", EmailNotifications: true},
		Debtor:        &models.User{BaseModel: models.BaseModel{ID: "debtor-1"}, Name: "Bob", Email: "bob@example.com", EmailNotifications: true},
	}
}

// --- payment due ---

func TestCheckAndNotifyPaymentDue_CreatesRowAndEmail(t *testing.T) {
	t.Parallel()

	svc, _, notificationRepo, mailer := newReminderFixture(
		testInvoice("inv-1", 72*time.Hour, models.InvoiceStatusPending),
	)

	count, err := svc.CheckAndNotifyPaymentDue(3)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.Len(t, notificationRepo.rows, 1)
	row := notificationRepo.rows[0]
	assert.Equal(t, "debtor-1", row.UserID)
	assert.Equal(t, "inv-1", row.InvoiceID)
	assert.Equal(t, models.NotificationTypePaymentDue, row.Type)
	assert.False(t, row.IsRead)
	assert.Contains(t, string(row.Data), "INV-20250601-inv-1")

	require.Len(t, mailer.dueSent, 1)
	assert.Equal(t, []string{"bob@example.com"}, mailer.recipients)
	assert.Equal(t, 3, mailer.dueSent[0].DaysUntilDue)
	assert.Contains(t, mailer.dueSent[0].ActionURL, "/invoices/inv-1")
}

func TestCheckAndNotifyPaymentDue_SecondRunIsNoop(t *testing.T) {
	t.Parallel()

	svc, _, notificationRepo, mailer := newReminderFixture(
		testInvoice("inv-1", 24*time.Hour, models.InvoiceStatusPending),
		testInvoice("inv-2", 48*time.Hour, models.InvoiceStatusPending),
	)

	count, err := svc.CheckAndNotifyPaymentDue(3)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = svc.CheckAndNotifyPaymentDue(3)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	assert.Len(t, notificationRepo.rows, 2)
	assert.Len(t, mailer.dueSent, 2)
}

func TestCheckAndNotifyPaymentDue_WindowBoundaries(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newReminderFixture(
		testInvoice("inv-now", time.Hour, models.InvoiceStatusPending),
		testInvoice("inv-edge", 72*time.Hour, models.InvoiceStatusPending),   // exactly now+3d
		testInvoice("inv-beyond", 73*time.Hour, models.InvoiceStatusPending), // just outside
		testInvoice("inv-past", -time.Hour, models.InvoiceStatusPending),     // already overdue
	)

	count, err := svc.CheckAndNotifyPaymentDue(3)
	require.NoError(t, err)
	// The window is closed on both ends: due-in-exactly-3-days is in, an
	// hour beyond is out, and already-late invoices belong to the overdue
	// scan, not this one.
	assert.Equal(t, 2, count)
}

func TestCheckAndNotifyPaymentDue_WiderWindowPicksUpMore(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newReminderFixture(
		testInvoice("inv-1", 48*time.Hour, models.InvoiceStatusPending),
		testInvoice("inv-2", 96*time.Hour, models.InvoiceStatusPending),
	)

	count, err := svc.CheckAndNotifyPaymentDue(5)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCheckAndNotifyPaymentDue_SkipsPaidAndCanceled(t *testing.T) {
	t.Parallel()

	svc, _, notificationRepo, _ := newReminderFixture(
		testInvoice("inv-paid", 24*time.Hour, models.InvoiceStatusPaid),
		testInvoice("inv-canceled", 24*time.Hour, models.InvoiceStatusCanceled),
	)

	count, err := svc.CheckAndNotifyPaymentDue(3)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, notificationRepo.rows)
}

func TestCheckAndNotifyPaymentDue_SkipsNilDueDate(t *testing.T) {
	t.Parallel()

	noDue := testInvoice("inv-nodue", 24*time.Hour, models.InvoiceStatusPending)
	noDue.DueDate = nil

	svc, _, _, _ := newReminderFixture()
	// Bypass the repo filter to exercise the service-level guard.
	svc.invoiceRepo = &stubInvoiceList{invoices: []models.Invoice{noDue}}

	count, err := svc.CheckAndNotifyPaymentDue(3)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCheckAndNotifyPaymentDue_EmailPreferenceRespected(t *testing.T) {
	t.Parallel()

	inv := testInvoice("inv-1", 24*time.Hour, models.InvoiceStatusPending)
	inv.Debtor.EmailNotifications = false

	svc, _, notificationRepo, mailer := newReminderFixture(inv)

	count, err := svc.CheckAndNotifyPaymentDue(3)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// The in-app row is always written; only the email channel is gated.
	assert.Len(t, notificationRepo.rows, 1)
	assert.Empty(t, mailer.dueSent)
}

func TestCheckAndNotifyPaymentDue_EmailFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	svc, _, notificationRepo, mailer := newReminderFixture(
		testInvoice("inv-1", 24*time.Hour, models.InvoiceStatusPending),
	)
	mailer.sendErr = errors.New("smtp: connection refused")

	count, err := svc.CheckAndNotifyPaymentDue(3)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, notificationRepo.rows, 1)
}

func TestCheckAndNotifyPaymentDue_QueryErrorReturnsZero(t *testing.T) {
	t.Parallel()

	svc, invoiceRepo, _, _ := newReminderFixture(
		testInvoice("inv-1", 24*time.Hour, models.InvoiceStatusPending),
	)
	invoiceRepo.findErr = errors.New("connection reset")

	count, err := svc.CheckAndNotifyPaymentDue(3)
	require.Error(t, err)
	assert.Equal(t, 0, count)
}

func TestCheckAndNotifyPaymentDue_DedupCheckErrorAborts(t *testing.T) {
	t.Parallel()

	svc, _, notificationRepo, _ := newReminderFixture(
		testInvoice("inv-1", 24*time.Hour, models.InvoiceStatusPending),
	)
	notificationRepo.existsErr = errors.New("connection reset")

	count, err := svc.CheckAndNotifyPaymentDue(3)
	require.Error(t, err)
	assert.Equal(t, 0, count)
}

// --- payment overdue ---

func TestCheckAndNotifyPaymentOverdue_MatchesLatePending(t *testing.T) {
	t.Parallel()

	// Still marked pending even though the due date has passed; the status
	// flip and the alert must not depend on each other.
	svc, _, notificationRepo, mailer := newReminderFixture(
		testInvoice("inv-late", -60*time.Hour, models.InvoiceStatusPending),
		testInvoice("inv-flagged", -24*time.Hour, models.InvoiceStatusOverdue),
	)

	count, err := svc.CheckAndNotifyPaymentOverdue()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.Len(t, notificationRepo.rows, 2)
	for _, row := range notificationRepo.rows {
		assert.Equal(t, models.NotificationTypePaymentOverdue, row.Type)
	}

	// 60 hours late is "2 days overdue": partial days round down.
	require.Len(t, mailer.overdueSent, 2)
	assert.Equal(t, 2, mailer.overdueSent[0].DaysOverdue)
	assert.Equal(t, 1, mailer.overdueSent[1].DaysOverdue)
}

func TestCheckAndNotifyPaymentOverdue_Idempotent(t *testing.T) {
	t.Parallel()

	svc, _, _, mailer := newReminderFixture(
		testInvoice("inv-late", -24*time.Hour, models.InvoiceStatusOverdue),
	)

	count, err := svc.CheckAndNotifyPaymentOverdue()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = svc.CheckAndNotifyPaymentOverdue()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Len(t, mailer.overdueSent, 1)
}

func TestOverdueAndDueNotificationsDoNotCollide(t *testing.T) {
	t.Parallel()

	// An invoice that got a due reminder and then went unpaid still gets the
	// overdue alert: dedup is per notification type.
	inv := testInvoice("inv-1", 24*time.Hour, models.InvoiceStatusPending)

	svc, invoiceRepo, notificationRepo, _ := newReminderFixture(inv)

	count, err := svc.CheckAndNotifyPaymentDue(3)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	// Time passes, the invoice is now late.
	pastDue := scanClock.Add(-24 * time.Hour)
	invoiceRepo.invoices[0].DueDate = &pastDue

	count, err = svc.CheckAndNotifyPaymentOverdue()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, notificationRepo.rows, 2)
}

// --- cleanup ---

func TestCleanupOldReadNotifications(t *testing.T) {
	t.Parallel()

	svc, _, notificationRepo, _ := newReminderFixture()

	makeRow := func(id string, read bool, age time.Duration) models.Notification {
		return models.Notification{
			BaseModel: models.BaseModel{ID: id, UpdatedAt: scanClock.Add(-age)},
			UserID:    "debtor-1",
			InvoiceID: "inv-" + id,
			Type:      models.NotificationTypePaymentDue,
			IsRead:    read,
		}
	}

	notificationRepo.rows = []models.Notification{
		makeRow("old-read", true, 65*24*time.Hour),
		makeRow("fresh-read", true, 30*24*time.Hour),
		makeRow("old-unread", false, 90*24*time.Hour),
	}

	deleted, err := svc.CleanupOldReadNotifications(60)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	// Unread rows survive no matter how old; fresh read rows survive too.
	require.Len(t, notificationRepo.rows, 2)
	ids := []string{notificationRepo.rows[0].ID, notificationRepo.rows[1].ID}
	assert.ElementsMatch(t, []string{"fresh-read", "old-unread"}, ids)
}

func TestCleanupOldReadNotifications_ZeroDaysSweepsAllRead(t *testing.T) {
	t.Parallel()

	svc, _, notificationRepo, _ := newReminderFixture()

	notificationRepo.rows = []models.Notification{
		{
			BaseModel: models.BaseModel{ID: "read-1", UpdatedAt: scanClock.Add(-time.Minute)},
			UserID:    "debtor-1", InvoiceID: "inv-1",
			Type:   models.NotificationTypePaymentDue,
			IsRead: true,
		},
		{
			BaseModel: models.BaseModel{ID: "unread-1", UpdatedAt: scanClock.Add(-time.Minute)},
			UserID:    "debtor-1", InvoiceID: "inv-2",
			Type: models.NotificationTypePaymentDue,
		},
	}

	deleted, err := svc.CleanupOldReadNotifications(0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	require.Len(t, notificationRepo.rows, 1)
	assert.Equal(t, "unread-1", notificationRepo.rows[0].ID)
}

func TestCleanupOldReadNotifications_NothingToDelete(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newReminderFixture()

	deleted, err := svc.CleanupOldReadNotifications(60)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}

// --- day math ---

func TestDaysUntilDueRoundsUp(t *testing.T) {
	t.Parallel()

	due := scanClock.Add(60 * time.Hour) // 2.5 days out
	assert.Equal(t, 3, daysUntilDue(scanClock, due))

	due = scanClock.Add(24 * time.Hour)
	assert.Equal(t, 1, daysUntilDue(scanClock, due))
}

func TestDaysOverdueRoundsDown(t *testing.T) {
	t.Parallel()

	due := scanClock.Add(-60 * time.Hour) // 2.5 days late
	assert.Equal(t, 2, daysOverdue(scanClock, due))

	due = scanClock.Add(-24 * time.Hour)
	assert.Equal(t, 1, daysOverdue(scanClock, due))
}

// stubInvoiceList returns its invoices from every scan query unfiltered.
type stubInvoiceList struct {
	fakeInvoiceRepo
	invoices []models.Invoice
}

func (r *stubInvoiceList) FindDueBetween(from, to time.Time) ([]models.Invoice, error) {
	return r.invoices, nil
}

func (r *stubInvoiceList) FindOverdue(before time.Time) ([]models.Invoice, error) {
	return r.invoices, nil
}
