package workers

import (
	"context"
	"time"

	"clutchpay_backend/internal/config"
	"clutchpay_backend/internal/logger"
	"clutchpay_backend/internal/services"
)

// ReminderWorker runs the payment reminder scans and the notification
// retention sweep on fixed intervals.
type ReminderWorker struct {
	reminderService services.ReminderService
	cfg             config.SchedulerConfig
}

func NewReminderWorker(reminderService services.ReminderService, cfg config.SchedulerConfig) *ReminderWorker {
	return &ReminderWorker{
		reminderService: reminderService,
		cfg:             cfg,
	}
}

// Start launches the scan and cleanup loops. Both stop when ctx is canceled.
func (w *ReminderWorker) Start(ctx context.Context) {
	go w.scanLoop(ctx)
	go w.cleanupLoop(ctx)
}

// scanLoop runs the due and overdue checks together. An immediate first pass
// runs on startup so a restarted service does not wait a full interval.
func (w *ReminderWorker) scanLoop(ctx context.Context) {
	interval := time.Duration(w.cfg.ScanIntervalMinutes) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Reminder scan loop started", "interval", interval.String())

	w.runScans()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Reminder scan loop stopped")
			return
		case <-ticker.C:
			w.runScans()
		}
	}
}

func (w *ReminderWorker) runScans() {
	dueCount, err := w.reminderService.CheckAndNotifyPaymentDue(w.cfg.DueDaysAhead)
	logger.WorkerLog("reminder", "payment_due_scan", err)
	if err == nil && dueCount > 0 {
		logger.Info("Payment due reminders sent", "count", dueCount)
	}

	overdueCount, err := w.reminderService.CheckAndNotifyPaymentOverdue()
	logger.WorkerLog("reminder", "payment_overdue_scan", err)
	if err == nil && overdueCount > 0 {
		logger.Info("Payment overdue alerts sent", "count", overdueCount)
	}
}

func (w *ReminderWorker) cleanupLoop(ctx context.Context) {
	interval := time.Duration(w.cfg.CleanupIntervalMinutes) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Notification cleanup loop started", "interval", interval.String())

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification cleanup loop stopped")
			return
		case <-ticker.C:
			deleted, err := w.reminderService.CleanupOldReadNotifications(w.cfg.RetentionDays)
			logger.WorkerLog("reminder", "notification_cleanup", err)
			if err == nil && deleted > 0 {
				logger.Info("Old read notifications removed", "count", deleted)
			}
		}
	}
}
