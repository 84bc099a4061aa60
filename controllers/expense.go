package controllers

import (
	"net/http"

	"salonsmart-backend/repository"
	"salonsmart-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ExpenseController struct {
	expenses *services.ExpenseService
	log      *zap.Logger
}

func NewExpenseController(expenses *services.ExpenseService, log *zap.Logger) *ExpenseController {
	return &ExpenseController{expenses: expenses, log: log}
}

func (ec *ExpenseController) GetExpenses(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	filter := repository.ExpenseFilter{
		Category: c.Query("category"),
		From:     c.Query("from"),
		To:       c.Query("to"),
	}
	list, err := ec.expenses.List(c.Request.Context(), a, filter)
	if err != nil {
		respondError(c, ec.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetBreakdown totals expenses per category; the range defaults to this month.
func (ec *ExpenseController) GetBreakdown(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	out, err := ec.expenses.Breakdown(c.Request.Context(), a, c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, ec.log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (ec *ExpenseController) GetExpense(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	e, err := ec.expenses.Get(c.Request.Context(), a, id)
	if err != nil {
		respondError(c, ec.log, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (ec *ExpenseController) CreateExpense(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var input services.ExpenseFields
	if !bindJSON(c, &input) {
		return
	}
	e, err := ec.expenses.Create(c.Request.Context(), a, input)
	if err != nil {
		respondError(c, ec.log, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (ec *ExpenseController) UpdateExpense(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.ExpenseFields
	if !bindJSON(c, &input) {
		return
	}
	e, err := ec.expenses.Update(c.Request.Context(), a, id, input)
	if err != nil {
		respondError(c, ec.log, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (ec *ExpenseController) DeleteExpense(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ec.expenses.Delete(c.Request.Context(), a, id); err != nil {
		respondError(c, ec.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}
