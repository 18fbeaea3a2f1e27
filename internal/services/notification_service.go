package services

import (
	"encoding/json"
	"fmt"

	"clutchpay_backend/internal/models"
	"clutchpay_backend/internal/repositories"
	"clutchpay_backend/internal/services/dto"
	"clutchpay_backend/pkg/apperrors"
)

type NotificationService interface {
	GetNotification(userID, notificationID string) (*dto.NotificationResponse, error)
	GetUserNotifications(userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error)
	MarkAsRead(userID, notificationID string) error
	MarkAllAsRead(userID string) error
	DeleteNotification(userID, notificationID string) error
	GetUnreadCount(userID string) (int64, error)

	// BuildNotificationResponse maps a stored notification plus its linked
	// invoice to the display DTO. Pure, no I/O.
	BuildNotificationResponse(notification *models.Notification) *dto.NotificationResponse
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

func (s *notificationService) GetNotification(userID, notificationID string) (*dto.NotificationResponse, error) {
	notification, err := s.notificationRepo.FindNotificationByID(notificationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, err
	}
	if notification.UserID != userID {
		return nil, apperrors.NewForbiddenError("Access denied")
	}
	return s.BuildNotificationResponse(notification), nil
}

func (s *notificationService) GetUserNotifications(userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error) {
	notifications, total, err := s.notificationRepo.FindUserNotifications(userID, criteria)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, s.BuildNotificationResponse(&notifications[i]))
	}

	return &dto.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		Page:          criteria.Page,
		PageSize:      criteria.PageSize,
		TotalPages:    calculateTotalPages(total, criteria.PageSize),
	}, nil
}

func (s *notificationService) MarkAsRead(userID, notificationID string) error {
	notification, err := s.notificationRepo.FindNotificationByID(notificationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return err
	}
	if notification.UserID != userID {
		return apperrors.NewForbiddenError("Access denied")
	}
	return s.notificationRepo.MarkAsRead(notificationID)
}

func (s *notificationService) MarkAllAsRead(userID string) error {
	return s.notificationRepo.MarkAllAsRead(userID)
}

func (s *notificationService) DeleteNotification(userID, notificationID string) error {
	notification, err := s.notificationRepo.FindNotificationByID(notificationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return err
	}
	if notification.UserID != userID {
		return apperrors.NewForbiddenError("Access denied")
	}
	return s.notificationRepo.DeleteNotification(notificationID)
}

func (s *notificationService) GetUnreadCount(userID string) (int64, error) {
	return s.notificationRepo.GetUnreadCount(userID)
}

func (s *notificationService) BuildNotificationResponse(notification *models.Notification) *dto.NotificationResponse {
	response := &dto.NotificationResponse{
		ID:        notification.ID,
		UserID:    notification.UserID,
		InvoiceID: notification.InvoiceID,
		Type:      notification.Type,
		Message:   formatMessage(notification),
		IsRead:    notification.IsRead,
		ReadAt:    notification.ReadAt,
		CreatedAt: notification.CreatedAt,
		UpdatedAt: notification.UpdatedAt,
	}

	if notification.Invoice != nil {
		response.InvoiceNumber = notification.Invoice.InvoiceNumber
	}

	if len(notification.Data) > 0 {
		var data map[string]interface{}
		if err := json.Unmarshal(notification.Data, &data); err == nil {
			response.Data = data
		}
	}

	return response
}

// formatMessage interpolates the linked invoice into the per-type message
// template. Falls back to a generic line when the invoice is not preloaded.
func formatMessage(notification *models.Notification) string {
	invoice := notification.Invoice
	if invoice == nil {
		return "You have a new notification"
	}

	issuerName := "Someone"
	if invoice.Issuer != nil {
		issuerName = invoice.Issuer.Name
	}
	debtorName := "Someone"
	if invoice.Debtor != nil {
		debtorName = invoice.Debtor.Name
	}

	switch notification.Type {
	case models.NotificationTypePaymentDue:
		return fmt.Sprintf("Invoice %s from %s is due soon (%.2f %s)",
			invoice.InvoiceNumber, issuerName, invoice.Amount, invoice.Currency)
	case models.NotificationTypePaymentOverdue:
		return fmt.Sprintf("Invoice %s from %s is overdue (%.2f %s)",
			invoice.InvoiceNumber, issuerName, invoice.Amount, invoice.Currency)
	case models.NotificationTypeInvoiceIssued:
		return fmt.Sprintf("%s issued you invoice %s for %.2f %s",
			issuerName, invoice.InvoiceNumber, invoice.Amount, invoice.Currency)
	case models.NotificationTypePaymentReceived:
		return fmt.Sprintf("%s paid invoice %s (%.2f %s)",
			debtorName, invoice.InvoiceNumber, invoice.Amount, invoice.Currency)
	case models.NotificationTypeInvoiceCanceled:
		return fmt.Sprintf("%s canceled invoice %s", issuerName, invoice.InvoiceNumber)
	default:
		return "You have a new notification"
	}
}

func calculateTotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		pages++
	}
	return pages
}
