package controllers

import (
	"net/http"

	"salonsmart-backend/models"
	"salonsmart-backend/services"
	"salonsmart-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AppointmentController struct {
	appointments *services.AppointmentService
	log          *zap.Logger
}

func NewAppointmentController(appointments *services.AppointmentService, log *zap.Logger) *AppointmentController {
	return &AppointmentController{appointments: appointments, log: log}
}

// GetAppointments supports ?date=, ?from=, ?to=, ?status= and ?stylistId=.
func (ac *AppointmentController) GetAppointments(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	q := services.AppointmentQuery{
		Date:   c.Query("date"),
		From:   c.Query("from"),
		To:     c.Query("to"),
		Status: models.AppointmentStatus(c.Query("status")),
	}
	if raw := c.Query("stylistId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid stylistId format")
			return
		}
		q.StylistID = &id
	}
	list, err := ac.appointments.List(c.Request.Context(), a, q)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (ac *AppointmentController) GetMyAppointments(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	mine, err := ac.appointments.ListMine(c.Request.Context(), a)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, mine)
}

func (ac *AppointmentController) GetTodayAppointments(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	list, err := ac.appointments.Today(c.Request.Context(), a)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (ac *AppointmentController) GetAppointment(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	apt, err := ac.appointments.Get(c.Request.Context(), a, id)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, apt)
}

func (ac *AppointmentController) CreateAppointment(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var input services.AppointmentInput
	if !bindJSON(c, &input) {
		return
	}
	apt, err := ac.appointments.Create(c.Request.Context(), a, input)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusCreated, apt)
}

func (ac *AppointmentController) UpdateAppointment(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.AppointmentPatch
	if !bindJSON(c, &input) {
		return
	}
	apt, err := ac.appointments.Update(c.Request.Context(), a, id, input)
	if err != nil {
		respondError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, apt)
}

// DeleteAppointment cancels; the appointment stays listed.
func (ac *AppointmentController) DeleteAppointment(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ac.appointments.Delete(c.Request.Context(), a, id); err != nil {
		respondError(c, ac.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment cancelled"})
}
