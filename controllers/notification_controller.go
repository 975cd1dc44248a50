package controllers

import (
	"net/http"

	"github.com/costaendriw/delivery-system/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NotificationController struct {
	reminderService *services.ReminderService
	logger          *zap.Logger
}

func NewNotificationController(reminderService *services.ReminderService, logger *zap.Logger) *NotificationController {
	return &NotificationController{reminderService: reminderService, logger: logger}
}

// CheckReminders runs the reminder batch on demand, outside the daily
// schedule. Useful for testing the cadence logic against live data.
func (nc *NotificationController) CheckReminders(ctx *gin.Context) {
	result, err := nc.reminderService.CheckAndSendReminders(ctx.Request.Context())
	if err != nil {
		nc.logger.Error("manual reminder check failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run reminder check"})
		return
	}

	ctx.JSON(http.StatusOK, result)
}
