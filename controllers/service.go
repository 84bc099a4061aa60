// controllers/service.go
package controllers

import (
	"net/http"

	"salonsmart-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ServiceController serves the salon service menu.
type ServiceController struct {
	catalog *services.CatalogService
	log     *zap.Logger
}

func NewServiceController(catalog *services.CatalogService, log *zap.Logger) *ServiceController {
	return &ServiceController{catalog: catalog, log: log}
}

// GetServices lists services by name. Customers only see active ones.
func (sc *ServiceController) GetServices(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	list, err := sc.catalog.List(c.Request.Context(), a, c.Query("category"))
	if err != nil {
		respondError(c, sc.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (sc *ServiceController) GetService(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	svc, err := sc.catalog.Get(c.Request.Context(), a, id)
	if err != nil {
		respondError(c, sc.log, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (sc *ServiceController) CreateService(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var input services.ServiceFields
	if !bindJSON(c, &input) {
		return
	}
	svc, err := sc.catalog.Create(c.Request.Context(), a, input)
	if err != nil {
		respondError(c, sc.log, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

// UpdateService merges the given fields into the stored service.
func (sc *ServiceController) UpdateService(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.ServiceFields
	if !bindJSON(c, &input) {
		return
	}
	svc, err := sc.catalog.Update(c.Request.Context(), a, id, input)
	if err != nil {
		respondError(c, sc.log, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (sc *ServiceController) DeleteService(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := sc.catalog.Delete(c.Request.Context(), a, id); err != nil {
		respondError(c, sc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}
