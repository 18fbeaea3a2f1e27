package handlers

import (
	"net/http"

	"clutchpay_backend/internal/config"
	"clutchpay_backend/internal/logger"
	"clutchpay_backend/internal/middleware"
	"clutchpay_backend/internal/services"
	"clutchpay_backend/internal/services/dto"
	"clutchpay_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// SchedulerHandler exposes a manual trigger for the reminder tasks that the
// background worker normally runs on its own schedule.
type SchedulerHandler struct {
	*BaseHandler
	reminderService services.ReminderService
	schedulerCfg    config.SchedulerConfig
}

func NewSchedulerHandler(base *BaseHandler, reminderService services.ReminderService, schedulerCfg config.SchedulerConfig) *SchedulerHandler {
	return &SchedulerHandler{
		BaseHandler:     base,
		reminderService: reminderService,
		schedulerCfg:    schedulerCfg,
	}
}

func (h *SchedulerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/scheduler", middleware.AuthMiddleware())
	{
		group.POST("/run", h.Run)
	}
}

// Run executes one or all reminder tasks immediately. The optional "task"
// query parameter selects "due", "overdue" or "cleanup"; when absent all
// three run in that order.
func (h *SchedulerHandler) Run(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	task := c.Query("task")
	var resp dto.SchedulerRunResponse

	if task == "" || task == "due" {
		daysAhead := ParseQueryInt(c, "days_ahead", h.schedulerCfg.DueDaysAhead)
		count, err := h.reminderService.CheckAndNotifyPaymentDue(daysAhead)
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}
		resp.DueNotified = &count
	}

	if task == "" || task == "overdue" {
		count, err := h.reminderService.CheckAndNotifyPaymentOverdue()
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}
		resp.OverdueNotified = &count
	}

	if task == "" || task == "cleanup" {
		olderThan := ParseQueryInt(c, "older_than_days", h.schedulerCfg.RetentionDays)
		count, err := h.reminderService.CleanupOldReadNotifications(olderThan)
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}
		resp.CleanedUp = &count
	}

	if resp.DueNotified == nil && resp.OverdueNotified == nil && resp.CleanedUp == nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Unknown task: "+task))
		return
	}

	logger.Info("Manual scheduler run completed",
		"task", task,
		"due_notified", resp.DueNotified,
		"overdue_notified", resp.OverdueNotified,
		"cleaned_up", resp.CleanedUp,
	)

	c.JSON(http.StatusOK, resp)
}
