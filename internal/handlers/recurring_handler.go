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

// RecurringHandler handles recurring transaction requests.
type RecurringHandler struct {
	recurringService  services.RecurringServicer
	recurrenceService services.RecurrenceServicer
	auditService      services.AuditServicer
}

// NewRecurringHandler creates a new RecurringHandler.
func NewRecurringHandler(
	recurringService services.RecurringServicer,
	recurrenceService services.RecurrenceServicer,
	auditService services.AuditServicer,
) *RecurringHandler {
	return &RecurringHandler{
		recurringService:  recurringService,
		recurrenceService: recurrenceService,
		auditService:      auditService,
	}
}

// CreateRecurringRequest represents the request payload for creating a
// recurring transaction.
type CreateRecurringRequest struct {
	Type        models.TransactionType `json:"type" binding:"required,transaction_type"`
	Description string                 `json:"description" binding:"required,min=1,max=255"`
	Amount      int64                  `json:"amount" binding:"required,gte=0"`
	Category    string                 `json:"category" binding:"required,min=1,max=100"`
	Frequency   models.Frequency       `json:"frequency" binding:"required,frequency"`
	StartDate   time.Time              `json:"start_date"`
	EndDate     *time.Time             `json:"end_date"`
	NextDueDate time.Time              `json:"next_due_date"`
	AutoCreate  bool                   `json:"auto_create"`
	BudgetID    *uint                  `json:"budget_id"`
}

// UpdateRecurringRequest represents the request payload for updating a
// recurring transaction.
type UpdateRecurringRequest struct {
	Description *string           `json:"description" binding:"omitempty,min=1,max=255"`
	Amount      *int64            `json:"amount" binding:"omitempty,gte=0"`
	Category    *string           `json:"category" binding:"omitempty,min=1,max=100"`
	Frequency   *models.Frequency `json:"frequency" binding:"omitempty,frequency"`
	EndDate     *time.Time        `json:"end_date"`
	NextDueDate *time.Time        `json:"next_due_date"`
	IsActive    *bool             `json:"is_active"`
	AutoCreate  *bool             `json:"auto_create"`
}

// ListRecurring handles listing recurring transactions.
// @Summary     List recurring transactions
// @Description List the user's recurring transactions, soonest due first
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.RecurringTransaction "Recurring transactions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring [get]
func (h *RecurringHandler) ListRecurring(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entries, err := h.recurringService.ListRecurring(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurring": entries})
}

// CreateRecurring handles creating a recurring transaction.
// @Summary     Create recurring transaction
// @Description Create a recurring transaction template
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateRecurringRequest true "Recurring transaction details"
// @Success     201 {object} models.RecurringTransaction "Recurring transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring [post]
func (h *RecurringHandler) CreateRecurring(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.recurringService.CreateRecurring(userID, services.RecurringInput{
		Type:        req.Type,
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Frequency:   req.Frequency,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		NextDueDate: req.NextDueDate,
		AutoCreate:  req.AutoCreate,
		BudgetID:    req.BudgetID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_RECURRING", "recurring_transaction", entry.ID, c.ClientIP(),
		map[string]interface{}{"description": req.Description, "frequency": req.Frequency})

	c.JSON(http.StatusCreated, gin.H{"recurring": entry})
}

// UpdateRecurring handles updating a recurring transaction.
// @Summary     Update recurring transaction
// @Description Update an existing recurring transaction
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                    true "Recurring transaction ID"
// @Param       request body UpdateRecurringRequest true "Updated fields"
// @Success     200 {object} models.RecurringTransaction "Updated recurring transaction"
// @Failure     400 {object} ErrorResponse "Invalid input or ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Recurring transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring/{id} [put]
func (h *RecurringHandler) UpdateRecurring(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recurringID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	entry, err := h.recurringService.UpdateRecurring(userID, recurringID, services.RecurringUpdate{
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Frequency:   req.Frequency,
		EndDate:     req.EndDate,
		NextDueDate: req.NextDueDate,
		IsActive:    req.IsActive,
		AutoCreate:  req.AutoCreate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_RECURRING", "recurring_transaction", recurringID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"recurring": entry})
}

// DeleteRecurring handles deleting a recurring transaction.
// @Summary     Delete recurring transaction
// @Description Delete a recurring transaction by ID (soft delete)
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Recurring transaction ID"
// @Success     200 {object} MessageResponse "Recurring transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Recurring transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring/{id} [delete]
func (h *RecurringHandler) DeleteRecurring(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recurringID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.recurringService.DeleteRecurring(userID, recurringID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_RECURRING", "recurring_transaction", recurringID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Recurring transaction deleted successfully"})
}

// Materialize handles creating a transaction from a recurring entry.
// @Summary     Materialize recurring transaction
// @Description Create a transaction from the entry's current due date and advance the schedule
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Recurring transaction ID"
// @Success     201 {object} models.Transaction "Created transaction and updated entry"
// @Failure     400 {object} ErrorResponse "Invalid ID or inactive entry"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Recurring transaction not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring/{id}/materialize [post]
func (h *RecurringHandler) Materialize(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recurringID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, entry, err := h.recurringService.Materialize(userID, recurringID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "MATERIALIZE_RECURRING", "recurring_transaction", recurringID, c.ClientIP(),
		map[string]interface{}{"transaction_id": transaction.ID})

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction, "recurring": entry})
}

// Detect handles scanning transaction history for recurring patterns.
// @Summary     Detect recurring patterns
// @Description Scan recent transactions for recurring patterns and propose candidates
// @Tags        recurring
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       days query int false "Window in days (default 90)"
// @Success     200 {array} services.RecurringCandidate "Detected candidates"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurring/detect [get]
func (h *RecurringHandler) Detect(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	days := 90
	if v := c.Query("days"); v != "" {
		days, err = strconv.Atoi(v)
		if err != nil || days <= 0 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "days must be a positive integer"))
			return
		}
	}

	candidates, err := h.recurrenceService.Detect(userID, days, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"candidates": candidates})
}
