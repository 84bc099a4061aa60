package controllers

import (
	"net/http"

	"salonsmart-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StylistController struct {
	staff *services.StaffService
	log   *zap.Logger
}

func NewStylistController(staff *services.StaffService, log *zap.Logger) *StylistController {
	return &StylistController{staff: staff, log: log}
}

func (sc *StylistController) GetStylists(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	list, err := sc.staff.List(c.Request.Context(), a)
	if err != nil {
		respondError(c, sc.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (sc *StylistController) GetStylist(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	st, err := sc.staff.Get(c.Request.Context(), a, id)
	if err != nil {
		respondError(c, sc.log, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (sc *StylistController) CreateStylist(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var input services.StylistFields
	if !bindJSON(c, &input) {
		return
	}
	st, err := sc.staff.Create(c.Request.Context(), a, input)
	if err != nil {
		respondError(c, sc.log, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (sc *StylistController) UpdateStylist(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.StylistFields
	if !bindJSON(c, &input) {
		return
	}
	st, err := sc.staff.Update(c.Request.Context(), a, id, input)
	if err != nil {
		respondError(c, sc.log, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (sc *StylistController) DeleteStylist(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := sc.staff.Delete(c.Request.Context(), a, id); err != nil {
		respondError(c, sc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stylist deleted successfully"})
}
