package repositories

import (
	"testing"
	"time"

	"clutchpay_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceRepository_FindDueBetween(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	repo := NewInvoiceRepository(db)
	issuer := createTestUser(t, db, "issuer")
	debtor := createTestUser(t, db, "debtor")

	now := time.Now().Truncate(time.Second)
	windowEnd := now.AddDate(0, 0, 3)

	inWindow := createTestInvoice(t, db, issuer, debtor, models.InvoiceStatusPending,
		timePtr(now.Add(48*time.Hour)))
	onEdge := createTestInvoice(t, db, issuer, debtor, models.InvoiceStatusPending,
		timePtr(windowEnd))
	createTestInvoice(t, db, issuer, debtor, models.InvoiceStatusPending,
		timePtr(now.Add(120*time.Hour))) // beyond window
	createTestInvoice(t, db, issuer, debtor, models.InvoiceStatusPending,
		timePtr(now.Add(-time.Hour))) // already past due
	createTestInvoice(t, db, issuer, debtor, models.InvoiceStatusPaid,
		timePtr(now.Add(24*time.Hour))) // paid, never scanned
	createTestInvoice(t, db, issuer, debtor, models.InvoiceStatusCanceled,
		timePtr(now.Add(24*time.Hour)))
	createTestInvoice(t, db, issuer, debtor, models.InvoiceStatusPending, nil)

	found, err := repo.FindDueBetween(now, windowEnd)
	require.NoError(t, err)
	require.Len(t, found, 2)

	ids := []string{found[0].ID, found[1].ID}
	assert.ElementsMatch(t, []string{inWindow.ID, onEdge.ID}, ids)

	// Debtor comes preloaded so the scanner can check the email preference
	// without another query.
	require.NotNil(t, found[0].Debtor)
	assert.Equal(t, debtor.Email, found[0].Debtor.Email)
	require.NotNil(t, found[0].Issuer)
}

func TestInvoiceRepository_FindOverdue(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	repo := NewInvoiceRepository(db)
	issuer := createTestUser(t, db, "issuer")
	debtor := createTestUser(t, db, "debtor")

	now := time.Now().Truncate(time.Second)

	// Late but still marked pending: the scanner must pick it up anyway.
	latePending := createTestInvoice(t, db, issuer, debtor, models.InvoiceStatusPending,
		timePtr(now.Add(-48*time.Hour)))
	flagged := createTestInvoice(t, db, issuer, debtor, models.InvoiceStatusOverdue,
		timePtr(now.Add(-24*time.Hour)))
	createTestInvoice(t, db, issuer, debtor, models.InvoiceStatusPaid,
		timePtr(now.Add(-24*time.Hour)))
	createTestInvoice(t, db, issuer, debtor, models.InvoiceStatusPending,
		timePtr(now.Add(24*time.Hour))) // not yet due
	createTestInvoice(t, db, issuer, debtor, models.InvoiceStatusPending, nil)

	found, err := repo.FindOverdue(now)
	require.NoError(t, err)
	require.Len(t, found, 2)

	ids := []string{found[0].ID, found[1].ID}
	assert.ElementsMatch(t, []string{latePending.ID, flagged.ID}, ids)
}

func TestInvoiceRepository_MarkPaid(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	repo := NewInvoiceRepository(db)
	issuer := createTestUser(t, db, "issuer")
	debtor := createTestUser(t, db, "debtor")

	invoice := createTestInvoice(t, db, issuer, debtor, models.InvoiceStatusPending,
		timePtr(time.Now().Add(24*time.Hour)))

	paidAt := time.Now().Truncate(time.Second)
	require.NoError(t, repo.MarkPaid(invoice.ID, paidAt))

	found, err := repo.FindByID(invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, found.Status)
	require.NotNil(t, found.PaidAt)

	assert.ErrorIs(t, repo.MarkPaid("missing-id", paidAt), ErrInvoiceNotFound)
}

func TestInvoiceRepository_FindUserInvoices(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	repo := NewInvoiceRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	createTestInvoice(t, db, alice, bob, models.InvoiceStatusPending, nil)
	createTestInvoice(t, db, bob, alice, models.InvoiceStatusPending, nil)
	createTestInvoice(t, db, carol, bob, models.InvoiceStatusPaid, nil)

	issued, total, err := repo.FindUserInvoices(alice.ID, InvoiceCriteria{Role: "issuer", Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, issued, 1)
	assert.Equal(t, alice.ID, issued[0].IssuerID)

	both, total, err := repo.FindUserInvoices(alice.ID, InvoiceCriteria{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, both, 2)

	paid, total, err := repo.FindUserInvoices(bob.ID, InvoiceCriteria{
		Role: "debtor", Status: models.InvoiceStatusPaid, Page: 1, PageSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, paid, 1)
}
