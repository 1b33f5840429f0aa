package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

// SubscriptionHandler handles subscription-related requests.
type SubscriptionHandler struct {
	subscriptionService services.SubscriptionServicer
	auditService        services.AuditServicer
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(subscriptionService services.SubscriptionServicer, auditService services.AuditServicer) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService, auditService: auditService}
}

// CreateSubscriptionRequest represents the request payload for creating a subscription.
type CreateSubscriptionRequest struct {
	Name               string              `json:"name" binding:"required,min=1,max=100"`
	Amount             int64               `json:"amount" binding:"required,gte=0"`
	Category           string              `json:"category" binding:"max=100"`
	BillingCycle       models.BillingCycle `json:"billing_cycle" binding:"required,billing_cycle"`
	StartDate          time.Time           `json:"start_date"`
	NextBillingDate    time.Time           `json:"next_billing_date"`
	IsTrial            bool                `json:"is_trial"`
	TrialEndDate       *time.Time          `json:"trial_end_date"`
	CancelReminderDays int                 `json:"cancel_reminder_days" binding:"omitempty,gt=0,lte=90"`
	Description        string              `json:"description" binding:"max=255"`
}

// UpdateSubscriptionRequest represents the request payload for updating a subscription.
type UpdateSubscriptionRequest struct {
	Name               *string              `json:"name" binding:"omitempty,min=1,max=100"`
	Amount             *int64               `json:"amount" binding:"omitempty,gte=0"`
	Category           *string              `json:"category" binding:"omitempty,max=100"`
	BillingCycle       *models.BillingCycle `json:"billing_cycle" binding:"omitempty,billing_cycle"`
	NextBillingDate    *time.Time           `json:"next_billing_date"`
	IsActive           *bool                `json:"is_active"`
	IsTrial            *bool                `json:"is_trial"`
	TrialEndDate       *time.Time           `json:"trial_end_date"`
	CancelReminderDays *int                 `json:"cancel_reminder_days" binding:"omitempty,gt=0,lte=90"`
	Description        *string              `json:"description" binding:"omitempty,max=255"`
}

// ListSubscriptions handles listing subscriptions.
// @Summary     List subscriptions
// @Description List the user's subscriptions, soonest billing first
// @Tags        subscriptions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Subscription "Subscriptions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subscriptions [get]
func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	subs, err := h.subscriptionService.ListSubscriptions(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscriptions": subs})
}

// CreateSubscription handles creating a subscription.
// @Summary     Create subscription
// @Description Register a new subscription
// @Tags        subscriptions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateSubscriptionRequest true "Subscription details"
// @Success     201 {object} models.Subscription "Subscription created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subscriptions [post]
func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	sub, err := h.subscriptionService.CreateSubscription(userID, services.SubscriptionInput{
		Name:               req.Name,
		Amount:             req.Amount,
		Category:           req.Category,
		BillingCycle:       req.BillingCycle,
		StartDate:          req.StartDate,
		NextBillingDate:    req.NextBillingDate,
		IsTrial:            req.IsTrial,
		TrialEndDate:       req.TrialEndDate,
		CancelReminderDays: req.CancelReminderDays,
		Description:        req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_SUBSCRIPTION", "subscription", sub.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "billing_cycle": req.BillingCycle})

	c.JSON(http.StatusCreated, gin.H{"subscription": sub})
}

// UpdateSubscription handles updating a subscription.
// @Summary     Update subscription
// @Description Update an existing subscription
// @Tags        subscriptions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                       true "Subscription ID"
// @Param       request body UpdateSubscriptionRequest true "Updated fields"
// @Success     200 {object} models.Subscription "Updated subscription"
// @Failure     400 {object} ErrorResponse "Invalid input or ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Subscription not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subscriptions/{id} [put]
func (h *SubscriptionHandler) UpdateSubscription(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	subscriptionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	sub, err := h.subscriptionService.UpdateSubscription(userID, subscriptionID, services.SubscriptionUpdate{
		Name:               req.Name,
		Amount:             req.Amount,
		Category:           req.Category,
		BillingCycle:       req.BillingCycle,
		NextBillingDate:    req.NextBillingDate,
		IsActive:           req.IsActive,
		IsTrial:            req.IsTrial,
		TrialEndDate:       req.TrialEndDate,
		CancelReminderDays: req.CancelReminderDays,
		Description:        req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_SUBSCRIPTION", "subscription", subscriptionID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

// DeleteSubscription handles deleting a subscription.
// @Summary     Delete subscription
// @Description Delete a subscription by ID (soft delete)
// @Tags        subscriptions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Subscription ID"
// @Success     200 {object} MessageResponse "Subscription deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Subscription not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subscriptions/{id} [delete]
func (h *SubscriptionHandler) DeleteSubscription(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	subscriptionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.subscriptionService.DeleteSubscription(userID, subscriptionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_SUBSCRIPTION", "subscription", subscriptionID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Subscription deleted successfully"})
}

// GetInsights handles aggregating active subscription costs.
// @Summary     Get subscription insights
// @Description Aggregate active subscription costs with renewal and trial windows
// @Tags        subscriptions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.SubscriptionInsights "Subscription insights"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subscriptions/insights [get]
func (h *SubscriptionHandler) GetInsights(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	insights, err := h.subscriptionService.Insights(userID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"insights": insights})
}

// GetCancelReminders handles listing subscriptions inside their reminder window.
// @Summary     Get cancel reminders
// @Description List active subscriptions renewing within their reminder window
// @Tags        subscriptions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.CancelReminder "Cancel reminders"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subscriptions/reminders [get]
func (h *SubscriptionHandler) GetCancelReminders(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	reminders, err := h.subscriptionService.CancelReminders(userID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminders": reminders})
}
