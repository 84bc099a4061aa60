package controllers

import (
	"errors"
	"io"
	"net/http"

	"salonsmart-backend/booking"
	"salonsmart-backend/services"
	"salonsmart-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingController exposes the booking wizard as server-side sessions.
type BookingController struct {
	booking *services.BookingService
	log     *zap.Logger
}

func NewBookingController(b *services.BookingService, log *zap.Logger) *BookingController {
	return &BookingController{booking: b, log: log}
}

type OpenSessionInput struct {
	ServiceID *uuid.UUID `json:"serviceId"`
}

type SelectServiceInput struct {
	ServiceID uuid.UUID `json:"serviceId" binding:"required"`
}

type SelectStylistInput struct {
	StylistID uuid.UUID `json:"stylistId" binding:"required"`
}

type SelectDateTimeInput struct {
	Date *string `json:"date"`
	Time *string `json:"time"`
}

type NotesInput struct {
	Notes string `json:"notes"`
}

type sessionResponse struct {
	ID    uuid.UUID        `json:"id"`
	State booking.Snapshot `json:"state"`
}

func (bc *BookingController) GetSlots(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"slots": booking.Slots})
}

func (bc *BookingController) OpenSession(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	// an empty body opens the flow without a preselected service
	var input OpenSessionInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	id, snap, err := bc.booking.Open(c.Request.Context(), a, input.ServiceID)
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	c.JSON(http.StatusCreated, sessionResponse{ID: id, State: snap})
}

// session resolves the actor and :id for the handlers below.
func (bc *BookingController) session(c *gin.Context) (services.Actor, uuid.UUID, bool) {
	a, ok := actor(c)
	if !ok {
		return a, uuid.Nil, false
	}
	id, ok := parseID(c, "id")
	return a, id, ok
}

// respondState returns the flow state; on a rejected action the body also
// carries the state so the client can re-render.
func (bc *BookingController) respondState(c *gin.Context, id uuid.UUID, snap booking.Snapshot, err error) {
	if err != nil {
		body := errorBody(err)
		if statusFor(err) < http.StatusInternalServerError {
			body["state"] = snap
		}
		c.AbortWithStatusJSON(statusFor(err), body)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{ID: id, State: snap})
}

func (bc *BookingController) GetSession(c *gin.Context) {
	a, id, ok := bc.session(c)
	if !ok {
		return
	}
	snap, err := bc.booking.Snapshot(a, id)
	if err != nil {
		respondError(c, bc.log, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{ID: id, State: snap})
}

func (bc *BookingController) SelectService(c *gin.Context) {
	a, id, ok := bc.session(c)
	if !ok {
		return
	}
	var input SelectServiceInput
	if !bindJSON(c, &input) {
		return
	}
	snap, err := bc.booking.SelectService(c.Request.Context(), a, id, input.ServiceID)
	bc.respondState(c, id, snap, err)
}

func (bc *BookingController) SelectStylist(c *gin.Context) {
	a, id, ok := bc.session(c)
	if !ok {
		return
	}
	var input SelectStylistInput
	if !bindJSON(c, &input) {
		return
	}
	snap, err := bc.booking.SelectStylist(c.Request.Context(), a, id, input.StylistID)
	bc.respondState(c, id, snap, err)
}

func (bc *BookingController) SelectDateTime(c *gin.Context) {
	a, id, ok := bc.session(c)
	if !ok {
		return
	}
	var input SelectDateTimeInput
	if !bindJSON(c, &input) {
		return
	}
	snap, err := bc.booking.SelectDateTime(a, id, input.Date, input.Time)
	bc.respondState(c, id, snap, err)
}

func (bc *BookingController) SetNotes(c *gin.Context) {
	a, id, ok := bc.session(c)
	if !ok {
		return
	}
	var input NotesInput
	if !bindJSON(c, &input) {
		return
	}
	snap, err := bc.booking.SetNotes(a, id, input.Notes)
	bc.respondState(c, id, snap, err)
}

func (bc *BookingController) Next(c *gin.Context) {
	a, id, ok := bc.session(c)
	if !ok {
		return
	}
	snap, err := bc.booking.Next(a, id)
	bc.respondState(c, id, snap, err)
}

func (bc *BookingController) Back(c *gin.Context) {
	a, id, ok := bc.session(c)
	if !ok {
		return
	}
	snap, err := bc.booking.Back(a, id)
	bc.respondState(c, id, snap, err)
}

// Submit books the appointment. Success and failure both carry the
// notification to show.
func (bc *BookingController) Submit(c *gin.Context) {
	a, id, ok := bc.session(c)
	if !ok {
		return
	}
	res, err := bc.booking.Submit(c.Request.Context(), a, id)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			bc.log.Error("booking submit failed", zap.String("session", id.String()), zap.Error(err))
		}
		body := errorBody(err)
		if res != nil {
			body["notification"] = res.Notification
			body["state"] = res.State
		}
		c.AbortWithStatusJSON(status, body)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (bc *BookingController) CloseSession(c *gin.Context) {
	a, id, ok := bc.session(c)
	if !ok {
		return
	}
	if err := bc.booking.Close(a, id); err != nil {
		respondError(c, bc.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
