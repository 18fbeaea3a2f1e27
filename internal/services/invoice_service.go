package services

import (
	"fmt"
	"time"

	"clutchpay_backend/internal/email"
	"clutchpay_backend/internal/logger"
	"clutchpay_backend/internal/models"
	"clutchpay_backend/internal/repositories"
	"clutchpay_backend/internal/services/dto"
	"clutchpay_backend/pkg/apperrors"

	"github.com/google/uuid"
)

type InvoiceService interface {
	CreateInvoice(issuerID string, req *dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error)
	GetInvoice(userID, invoiceID string) (*dto.InvoiceResponse, error)
	GetUserInvoices(userID string, criteria repositories.InvoiceCriteria) (*dto.InvoiceListResponse, error)
	PayInvoice(userID, invoiceID string, req *dto.PayInvoiceRequest) (*dto.InvoiceResponse, error)
	CancelInvoice(userID, invoiceID string) error
}

type invoiceService struct {
	invoiceRepo      repositories.InvoiceRepository
	userRepo         repositories.UserRepository
	notificationRepo repositories.NotificationRepository
	paymentRepo      repositories.PaymentRepository
	mailer           email.Provider
	baseURL          string
}

func NewInvoiceService(
	invoiceRepo repositories.InvoiceRepository,
	userRepo repositories.UserRepository,
	notificationRepo repositories.NotificationRepository,
	paymentRepo repositories.PaymentRepository,
	mailer email.Provider,
	baseURL string,
) InvoiceService {
	return &invoiceService{
		invoiceRepo:      invoiceRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		paymentRepo:      paymentRepo,
		mailer:           mailer,
		baseURL:          baseURL,
	}
}

func (s *invoiceService) CreateInvoice(issuerID string, req *dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	issuer, err := s.userRepo.FindByID(issuerID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	debtor, err := s.userRepo.FindByEmail(req.DebtorEmail)
	if err != nil {
		return nil, apperrors.ErrNotFound(fmt.Errorf("debtor %s: %w", req.DebtorEmail, err))
	}
	if debtor.ID == issuer.ID {
		return nil, apperrors.ErrInvalidOperation("invoice", "Cannot issue an invoice to yourself")
	}

	currency := req.Currency
	if currency == "" {
		currency = "EUR"
	}

	invoice := &models.Invoice{
		InvoiceNumber: generateInvoiceNumber(),
		IssuerID:      issuer.ID,
		DebtorID:      debtor.ID,
		Amount:        req.Amount,
		Currency:      currency,
		Subject:       req.Subject,
		Status:        models.InvoiceStatusPending,
		DueDate:       req.DueDate,
		PdfKey:        req.PdfKey,
	}

	if err := s.invoiceRepo.Create(invoice); err != nil {
		return nil, err
	}
	invoice.Issuer = issuer
	invoice.Debtor = debtor

	s.notifyUser(invoice, debtor, models.NotificationTypeInvoiceIssued, func(to string) error {
		data := email.InvoiceIssuedData{
			TemplateData: email.TemplateData{
				UserName:   debtor.Name,
				ActionURL:  fmt.Sprintf("%s/invoices/%s", s.baseURL, invoice.ID),
				ActionText: "View invoice",
			},
			InvoiceNumber: invoice.InvoiceNumber,
			IssuerName:    issuer.Name,
			Amount:        invoice.Amount,
			Currency:      invoice.Currency,
		}
		if invoice.DueDate != nil {
			data.DueDate = invoice.DueDate.Format("2006-01-02")
		}
		return s.mailer.SendInvoiceIssued(to, data)
	})

	return buildInvoiceResponse(invoice), nil
}

func (s *invoiceService) GetInvoice(userID, invoiceID string) (*dto.InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(invoiceID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrInvoiceNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, err
	}
	if invoice.IssuerID != userID && invoice.DebtorID != userID {
		return nil, apperrors.NewForbiddenError("Access denied")
	}
	return buildInvoiceResponse(invoice), nil
}

func (s *invoiceService) GetUserInvoices(userID string, criteria repositories.InvoiceCriteria) (*dto.InvoiceListResponse, error) {
	invoices, total, err := s.invoiceRepo.FindUserInvoices(userID, criteria)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		responses = append(responses, buildInvoiceResponse(&invoices[i]))
	}

	return &dto.InvoiceListResponse{
		Invoices:   responses,
		Total:      total,
		Page:       criteria.Page,
		PageSize:   criteria.PageSize,
		TotalPages: calculateTotalPages(total, criteria.PageSize),
	}, nil
}

func (s *invoiceService) PayInvoice(userID, invoiceID string, req *dto.PayInvoiceRequest) (*dto.InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(invoiceID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrInvoiceNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, err
	}
	if invoice.DebtorID != userID {
		return nil, apperrors.NewForbiddenError("Only the debtor can pay an invoice")
	}
	if invoice.Status != models.InvoiceStatusPending && invoice.Status != models.InvoiceStatusOverdue {
		return nil, apperrors.ErrInvalidStatus("invoice", fmt.Sprintf("Invoice in status %s cannot be paid", invoice.Status))
	}

	payment := &models.Payment{
		InvoiceID:   invoice.ID,
		Amount:      invoice.Amount,
		Currency:    invoice.Currency,
		Provider:    req.Provider,
		ProviderRef: req.ProviderRef,
		Status:      models.PaymentStatusSucceeded,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, err
	}

	paidAt := time.Now()
	if err := s.invoiceRepo.MarkPaid(invoice.ID, paidAt); err != nil {
		return nil, err
	}
	invoice.Status = models.InvoiceStatusPaid
	invoice.PaidAt = &paidAt

	// The issuer is the recipient for payment confirmations.
	if invoice.Issuer != nil {
		s.notifyUser(invoice, invoice.Issuer, models.NotificationTypePaymentReceived, func(to string) error {
			debtorName := ""
			if invoice.Debtor != nil {
				debtorName = invoice.Debtor.Name
			}
			return s.mailer.SendPaymentReceived(to, email.PaymentReceivedData{
				TemplateData: email.TemplateData{
					UserName:   invoice.Issuer.Name,
					ActionURL:  fmt.Sprintf("%s/invoices/%s", s.baseURL, invoice.ID),
					ActionText: "View invoice",
				},
				InvoiceNumber: invoice.InvoiceNumber,
				DebtorName:    debtorName,
				Amount:        invoice.Amount,
				Currency:      invoice.Currency,
			})
		})
	}

	return buildInvoiceResponse(invoice), nil
}

func (s *invoiceService) CancelInvoice(userID, invoiceID string) error {
	invoice, err := s.invoiceRepo.FindByID(invoiceID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrInvoiceNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return err
	}
	if invoice.IssuerID != userID {
		return apperrors.NewForbiddenError("Only the issuer can cancel an invoice")
	}
	if invoice.Status == models.InvoiceStatusPaid || invoice.Status == models.InvoiceStatusCanceled {
		return apperrors.ErrInvalidStatus("invoice", fmt.Sprintf("Invoice in status %s cannot be canceled", invoice.Status))
	}

	if err := s.invoiceRepo.UpdateStatus(invoice.ID, models.InvoiceStatusCanceled); err != nil {
		return err
	}

	if invoice.Debtor != nil {
		issuerName := ""
		if invoice.Issuer != nil {
			issuerName = invoice.Issuer.Name
		}
		s.notifyUser(invoice, invoice.Debtor, models.NotificationTypeInvoiceCanceled, func(to string) error {
			return s.mailer.SendInvoiceCanceled(to, email.InvoiceCanceledData{
				TemplateData:  email.TemplateData{UserName: invoice.Debtor.Name},
				InvoiceNumber: invoice.InvoiceNumber,
				IssuerName:    issuerName,
			})
		})
	}

	return nil
}

// notifyUser persists a notification and best-effort emails the recipient.
// Failures here degrade the channel but never fail the invoice operation.
func (s *invoiceService) notifyUser(invoice *models.Invoice, recipient *models.User, nType models.NotificationType, sendEmail func(to string) error) {
	notification := &models.Notification{
		UserID:    recipient.ID,
		InvoiceID: invoice.ID,
		Type:      nType,
		Data:      notificationPayload(invoice),
		IsRead:    false,
	}
	if err := s.notificationRepo.CreateNotification(notification); err != nil {
		logger.Warn("failed to persist invoice notification",
			"invoice_id", invoice.ID,
			"type", string(nType),
			"error", err.Error(),
		)
		return
	}

	if recipient.EmailNotifications {
		if err := sendEmail(recipient.Email); err != nil {
			logger.Warn("invoice email failed",
				"invoice_id", invoice.ID,
				"type", string(nType),
				"error", err.Error(),
			)
		}
	}
}

func generateInvoiceNumber() string {
	return fmt.Sprintf("INV-%s-%s",
		time.Now().Format("20060102"),
		uuid.NewString()[:8],
	)
}

func buildInvoiceResponse(invoice *models.Invoice) *dto.InvoiceResponse {
	response := &dto.InvoiceResponse{
		ID:            invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		IssuerID:      invoice.IssuerID,
		DebtorID:      invoice.DebtorID,
		Amount:        invoice.Amount,
		Currency:      invoice.Currency,
		Subject:       invoice.Subject,
		Status:        invoice.Status,
		DueDate:       invoice.DueDate,
		PaidAt:        invoice.PaidAt,
		PdfKey:        invoice.PdfKey,
		CreatedAt:     invoice.CreatedAt,
	}
	if invoice.Issuer != nil {
		response.IssuerName = invoice.Issuer.Name
	}
	if invoice.Debtor != nil {
		response.DebtorName = invoice.Debtor.Name
	}
	return response
}
