package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

// CategoryBudgetHandler handles per-category budget requests.
type CategoryBudgetHandler struct {
	budgetService services.CategoryBudgetServicer
	auditService  services.AuditServicer
}

// NewCategoryBudgetHandler creates a new CategoryBudgetHandler.
func NewCategoryBudgetHandler(budgetService services.CategoryBudgetServicer, auditService services.AuditServicer) *CategoryBudgetHandler {
	return &CategoryBudgetHandler{budgetService: budgetService, auditService: auditService}
}

// SetCategoryBudgetRequest represents the request payload for creating or
// replacing a category budget.
type SetCategoryBudgetRequest struct {
	Category        string              `json:"category" binding:"required,min=1,max=100"`
	Amount          int64               `json:"amount" binding:"gte=0"`
	Period          models.BudgetPeriod `json:"period" binding:"required,budget_period"`
	Rollover        bool                `json:"rollover"`
	AlertThresholds []int               `json:"alert_thresholds" binding:"omitempty,dive,gt=0,lte=200"`
}

// SetCategoryBudget handles creating or replacing a category budget.
// @Summary     Set category budget
// @Description Create or replace the budget for a category in the current period
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SetCategoryBudgetRequest true "Budget details"
// @Success     200 {object} models.Budget "Budget saved"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [put]
func (h *CategoryBudgetHandler) SetCategoryBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetCategoryBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.SetCategoryBudget(
		userID, req.Category, req.Amount, req.Period, req.Rollover, req.AlertThresholds, time.Now(),
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SET_CATEGORY_BUDGET", "budget", budget.ID, c.ClientIP(),
		map[string]interface{}{"category": req.Category, "amount": req.Amount, "period": req.Period})

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// ListCategoryBudgets handles listing category budgets with spend figures.
// @Summary     List category budgets
// @Description List category budgets for the current period with computed spend
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       period query string false "Budget period (monthly/yearly, default monthly)"
// @Param       date   query string false "Reference date (RFC 3339 or YYYY-MM-DD, default now)"
// @Success     200 {array} services.CategoryBudgetStatus "Category budget statuses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets [get]
func (h *CategoryBudgetHandler) ListCategoryBudgets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	period := models.BudgetPeriodMonthly
	if v := c.Query("period"); v != "" {
		period = models.BudgetPeriod(v)
		if period != models.BudgetPeriodMonthly && period != models.BudgetPeriodYearly {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be 'monthly' or 'yearly'"))
			return
		}
	}

	ref, err := parseDateQuery(c, "date", time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgets, err := h.budgetService.ListCategoryBudgets(userID, period, ref)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}

// DeleteCategoryBudget handles deleting a category budget.
// @Summary     Delete category budget
// @Description Delete a category budget by ID (soft delete)
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {object} MessageResponse "Budget deleted"
// @Failure     400 {object} ErrorResponse "Invalid budget ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id} [delete]
func (h *CategoryBudgetHandler) DeleteCategoryBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteCategoryBudget(userID, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_CATEGORY_BUDGET", "budget", budgetID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully"})
}

// Rollover handles carrying unspent budget amounts into the current month.
// @Summary     Roll over budgets
// @Description Carry last month's unspent amounts into this month for rollover-enabled budgets
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Budget "Budgets credited by the rollover"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/rollover [post]
func (h *CategoryBudgetHandler) Rollover(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	rolled, err := h.budgetService.Rollover(userID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "ROLLOVER_BUDGETS", "budget", 0, c.ClientIP(),
		map[string]interface{}{"count": len(rolled)})

	c.JSON(http.StatusOK, gin.H{"budgets": rolled})
}

// GetAlerts handles listing pending budget threshold alerts.
// @Summary     Get budget alerts
// @Description List crossed budget thresholds eligible for notification
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.BudgetAlert "Pending alerts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/alerts [get]
func (h *CategoryBudgetHandler) GetAlerts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	alerts, err := h.budgetService.EvaluateAlerts(userID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

// MarkAlertSent handles recording that a threshold alert was delivered.
// @Summary     Mark alert sent
// @Description Record that a budget threshold alert was delivered, starting its cooldown
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path int true "Budget ID"
// @Param       threshold path int true "Threshold percentage"
// @Success     200 {object} MessageResponse "Alert recorded"
// @Failure     400 {object} ErrorResponse "Invalid budget ID or threshold"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/alerts/{threshold}/sent [post]
func (h *CategoryBudgetHandler) MarkAlertSent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	threshold, err := strconv.Atoi(c.Param("threshold"))
	if err != nil || threshold <= 0 {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid threshold"))
		return
	}

	if err := h.budgetService.MarkAlertSent(userID, budgetID, threshold, time.Now()); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Alert recorded successfully"})
}
