// controllers/invoice.go
package controllers

import (
	"net/http"

	"salonsmart-backend/models"
	"salonsmart-backend/repository"
	"salonsmart-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type InvoiceController struct {
	billing *services.BillingService
	log     *zap.Logger
}

func NewInvoiceController(billing *services.BillingService, log *zap.Logger) *InvoiceController {
	return &InvoiceController{billing: billing, log: log}
}

// GetInvoices supports ?status=, ?from= and ?to= on the invoice date.
func (ic *InvoiceController) GetInvoices(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	filter := repository.InvoiceFilter{
		Status: models.PaymentStatus(c.Query("status")),
		From:   c.Query("from"),
		To:     c.Query("to"),
	}
	list, err := ic.billing.List(c.Request.Context(), a, filter)
	if err != nil {
		respondError(c, ic.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (ic *InvoiceController) GetInvoice(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	inv, err := ic.billing.Get(c.Request.Context(), a, id)
	if err != nil {
		respondError(c, ic.log, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (ic *InvoiceController) GetInvoiceSummary(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	summary, err := ic.billing.Summary(c.Request.Context(), a)
	if err != nil {
		respondError(c, ic.log, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// CreateInvoice prices each line from the service menu and computes totals.
func (ic *InvoiceController) CreateInvoice(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var input services.InvoiceFields
	if !bindJSON(c, &input) {
		return
	}
	inv, err := ic.billing.Create(c.Request.Context(), a, input)
	if err != nil {
		respondError(c, ic.log, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

func (ic *InvoiceController) CreateFromAppointment(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "appointmentId")
	if !ok {
		return
	}
	inv, err := ic.billing.FromAppointment(c.Request.Context(), a, id)
	if err != nil {
		respondError(c, ic.log, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

func (ic *InvoiceController) UpdateInvoice(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.InvoiceFields
	if !bindJSON(c, &input) {
		return
	}
	inv, err := ic.billing.Update(c.Request.Context(), a, id, input)
	if err != nil {
		respondError(c, ic.log, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (ic *InvoiceController) DeleteInvoice(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ic.billing.Delete(c.Request.Context(), a, id); err != nil {
		respondError(c, ic.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted successfully"})
}
