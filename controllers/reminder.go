// controllers/reminder.go
package controllers

import (
	"net/http"
	"strconv"

	"salonsmart-backend/services"
	"salonsmart-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ReminderController struct {
	reminders *services.ReminderService
	log       *zap.Logger
}

func NewReminderController(reminders *services.ReminderService, log *zap.Logger) *ReminderController {
	return &ReminderController{reminders: reminders, log: log}
}

func (rc *ReminderController) GetReminderTemplates(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	list, err := rc.reminders.ListTemplates(c.Request.Context(), a)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (rc *ReminderController) GetReminderTemplate(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := rc.reminders.GetTemplate(c.Request.Context(), a, id)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (rc *ReminderController) CreateReminderTemplate(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var input services.TemplateFields
	if !bindJSON(c, &input) {
		return
	}
	t, err := rc.reminders.CreateTemplate(c.Request.Context(), a, input)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (rc *ReminderController) UpdateReminderTemplate(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.TemplateFields
	if !bindJSON(c, &input) {
		return
	}
	t, err := rc.reminders.UpdateTemplate(c.Request.Context(), a, id, input)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (rc *ReminderController) DeleteReminderTemplate(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := rc.reminders.DeleteTemplate(c.Request.Context(), a, id); err != nil {
		respondError(c, rc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reminder template deleted successfully"})
}

// GetReminderLogs returns the newest logs; ?limit= caps the count.
func (rc *ReminderController) GetReminderLogs(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "limit must be a number")
			return
		}
		limit = n
	}
	logs, err := rc.reminders.Logs(c.Request.Context(), a, limit)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// RunReminders sends tomorrow's reminders now instead of waiting for the job.
func (rc *ReminderController) RunReminders(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	run, err := rc.reminders.Run(c.Request.Context(), a)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (rc *ReminderController) SendConfirmation(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "appointmentId")
	if !ok {
		return
	}
	entry, err := rc.reminders.SendConfirmation(c.Request.Context(), a, id)
	if err != nil {
		respondError(c, rc.log, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}
