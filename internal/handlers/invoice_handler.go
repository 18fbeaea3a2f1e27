package handlers

import (
	"net/http"

	"clutchpay_backend/internal/middleware"
	"clutchpay_backend/internal/models"
	"clutchpay_backend/internal/repositories"
	"clutchpay_backend/internal/services"
	"clutchpay_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	*BaseHandler
	invoiceService services.InvoiceService
}

func NewInvoiceHandler(base *BaseHandler, invoiceService services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{BaseHandler: base, invoiceService: invoiceService}
}

func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/invoices", middleware.AuthMiddleware())
	{
		group.POST("", h.CreateInvoice)
		group.GET("", h.ListInvoices)
		group.GET("/:id", h.GetInvoice)
		group.POST("/:id/pay", h.PayInvoice)
		group.POST("/:id/cancel", h.CancelInvoice)
	}
}

func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateInvoiceRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.invoiceService.CreateInvoice(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	criteria := repositories.InvoiceCriteria{
		Role:   c.Query("role"),
		Status: models.InvoiceStatus(c.Query("status")),
	}
	criteria.Page, criteria.PageSize = ParsePagination(c)

	resp, err := h.invoiceService.GetUserInvoices(userID, criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.invoiceService.GetInvoice(userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *InvoiceHandler) PayInvoice(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.PayInvoiceRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.invoiceService.PayInvoice(userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *InvoiceHandler) CancelInvoice(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.invoiceService.CancelInvoice(userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "canceled"})
}
