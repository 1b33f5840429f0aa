package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

// GroupHandler handles expense-sharing group requests.
type GroupHandler struct {
	groupService services.GroupServicer
	auditService services.AuditServicer
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(groupService services.GroupServicer, auditService services.AuditServicer) *GroupHandler {
	return &GroupHandler{groupService: groupService, auditService: auditService}
}

// CreateGroupRequest represents the request payload for creating a group.
type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=255"`
}

// UpdateGroupRequest represents the request payload for updating a group.
type UpdateGroupRequest struct {
	Name        string `json:"name" binding:"omitempty,min=1,max=100"`
	Description string `json:"description" binding:"omitempty,max=255"`
}

// AddMemberRequest represents the request payload for adding a group member.
type AddMemberRequest struct {
	Email string            `json:"email" binding:"required,email"`
	Role  models.MemberRole `json:"role" binding:"required,member_role"`
}

// UpdateMemberRoleRequest represents the request payload for changing a
// member's role.
type UpdateMemberRoleRequest struct {
	Role models.MemberRole `json:"role" binding:"required,member_role"`
}

// SplitRequest is one explicit member share in an expense payload.
type SplitRequest struct {
	UserID     uint    `json:"user_id" binding:"required"`
	Amount     int64   `json:"amount" binding:"gte=0"`
	Percentage float64 `json:"percentage" binding:"omitempty,gte=0,lte=100"`
}

// CreateExpenseRequest represents the request payload for creating a
// shared expense.
type CreateExpenseRequest struct {
	Description string         `json:"description" binding:"required,min=1,max=255"`
	TotalAmount int64          `json:"total_amount" binding:"required,gte=0"`
	Category    string         `json:"category" binding:"max=100"`
	Date        time.Time      `json:"date"`
	Splits      []SplitRequest `json:"splits" binding:"omitempty,dive"`
	SplitEqual  bool           `json:"split_equal"`
}

// UpdateExpenseRequest represents the request payload for updating a
// shared expense.
type UpdateExpenseRequest struct {
	Description *string        `json:"description" binding:"omitempty,min=1,max=255"`
	TotalAmount *int64         `json:"total_amount" binding:"omitempty,gte=0"`
	Category    *string        `json:"category" binding:"omitempty,max=100"`
	Date        *time.Time     `json:"date"`
	Splits      []SplitRequest `json:"splits" binding:"omitempty,dive"`
	IsSettled   *bool          `json:"is_settled"`
}

func toSplitInputs(splits []SplitRequest) []services.SplitInput {
	if splits == nil {
		return nil
	}
	inputs := make([]services.SplitInput, 0, len(splits))
	for _, split := range splits {
		inputs = append(inputs, services.SplitInput{
			UserID:     split.UserID,
			Amount:     split.Amount,
			Percentage: split.Percentage,
		})
	}
	return inputs
}

// CreateGroup handles creating a group.
// @Summary     Create group
// @Description Create an expense-sharing group with the caller as admin
// @Tags        groups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateGroupRequest true "Group details"
// @Success     201 {object} models.Group "Group created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /groups [post]
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	group, err := h.groupService.CreateGroup(userID, req.Name, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_GROUP", "group", group.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusCreated, gin.H{"group": group})
}

// GetGroups handles listing the caller's groups.
// @Summary     List groups
// @Description List every group the caller is a member of
// @Tags        groups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Group "Groups"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /groups [get]
func (h *GroupHandler) GetGroups(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	groups, err := h.groupService.GetUserGroups(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// GetGroup handles retrieving a specific group.
// @Summary     Get group by ID
// @Description Get a group the caller is a member of
// @Tags        groups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Group ID"
// @Success     200 {object} models.Group "Group details"
// @Failure     400 {object} ErrorResponse "Invalid group ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Group not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /groups/{id} [get]
func (h *GroupHandler) GetGroup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	groupID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	group, err := h.groupService.GetGroupByID(userID, groupID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"group": group})
}

// UpdateGroup handles renaming a group.
// @Summary     Update group
// @Description Update a group's name or description (admin only)
// @Tags        groups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                true "Group ID"
// @Param       request body UpdateGroupRequest true "Updated group details"
// @Success     200 {object} models.Group "Updated group"
// @Failure     400 {object} ErrorResponse "Invalid input or group ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an admin"
// @Failure     404 {object} ErrorResponse "Group not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /groups/{id} [put]
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	groupID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	group, err := h.groupService.UpdateGroup(userID, groupID, req.Name, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_GROUP", "group", groupID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"group": group})
}

// DeleteGroup handles deactivating a group.
// @Summary     Delete group
// @Description Deactivate a group (admin only)
// @Tags        groups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Group ID"
// @Success     200 {object} MessageResponse "Group deleted"
// @Failure     400 {object} ErrorResponse "Invalid group ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not an admin"
// @Failure     404 {object} ErrorResponse "Group not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /groups/{id} [delete]
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	groupID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.groupService.DeleteGroup(userID, groupID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_GROUP", "group", groupID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Group deleted successfully"})
}

// AddMember handles adding a member to a group.
// @Summary     Add group member
// @Description Add a user to the group by email (admin or editor)
// @Tags        groups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int              true "Group ID"
// @Param       request body AddMemberRequest true "Member email and role"
// @Success     200 {object} models.Group "Updated group"
// @Failure     400 {object} ErrorResponse "Invalid input, group ID, or already a member"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Viewer cannot add members"
// @Failure     404 {object} ErrorResponse "Group or user not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /groups/{id}/members [post]
func (h *GroupHandler) AddMember(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	groupID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	group, err := h.groupService.AddMember(userID, groupID, req.Email, req.Role)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "ADD_GROUP_MEMBER", "group", groupID, c.ClientIP(),
		map[string]interface{}{"email": req.Email, "role": req.Role})

	c.JSON(http.StatusOK, gin.H{"group": group})
}

// UpdateMemberRole handles changing a member's role.
// @Summary     Update member role
// @Description Change a group member's role (group creator only)
// @Tags        groups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path int                     true "Group ID"
// @Param       member_id path int                     true "Member ID"
// @Param       request   body UpdateMemberRoleRequest true "New role"
// @Success     200 {object} models.Group "Updated group"
// @Failure     400 {object} ErrorResponse "Invalid input or IDs"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not the group creator"
// @Failure     404 {object} ErrorResponse "Group or member not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /groups/{id}/members/{member_id} [put]
func (h *GroupHandler) UpdateMemberRole(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	groupID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	memberID, err := parsePathID(c, "member_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	group, err := h.groupService.UpdateMemberRole(userID, groupID, memberID, req.Role)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_MEMBER_ROLE", "group", groupID, c.ClientIP(),
		map[string]interface{}{"member_id": memberID, "role": req.Role})

	c.JSON(http.StatusOK, gin.H{"group": group})
}

// RemoveMember handles removing a member from a group.
// @Summary     Remove group member
// @Description Remove a member from the group (admin or editor)
// @Tags        groups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path int true "Group ID"
// @Param       member_id path int true "Member ID"
// @Success     200 {object} MessageResponse "Member removed"
// @Failure     400 {object} ErrorResponse "Invalid IDs"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not allowed"
// @Failure     404 {object} ErrorResponse "Group or member not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /groups/{id}/members/{member_id} [delete]
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	groupID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	memberID, err := parsePathID(c, "member_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.groupService.RemoveMember(userID, groupID, memberID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "REMOVE_GROUP_MEMBER", "group", groupID, c.ClientIP(),
		map[string]interface{}{"member_id": memberID})

	c.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}

// PreviewSplitRequest represents the request payload for previewing an
// equal split.
type PreviewSplitRequest struct {
	TotalAmount int64 `json:"total_amount" binding:"required,gte=0"`
}

// PreviewSplit handles previewing an equal split of an amount.
// @Summary     Preview equal split
// @Description Show how an amount would divide equally across the group's current members
// @Tags        groups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                 true "Group ID"
// @Param       request body PreviewSplitRequest true "Amount to split"
// @Success     200 {array} models.ExpenseSplit "Computed splits"
// @Failure     400 {object} ErrorResponse "Invalid input or group ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Group not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /groups/{id}/expenses/split [post]
func (h *GroupHandler) PreviewSplit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	groupID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PreviewSplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	splits, err := h.groupService.PreviewEqualSplit(userID, groupID, req.TotalAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"splits": splits})
}

// ListExpenses handles listing a group's shared expenses.
// @Summary     List shared expenses
// @Description List the group's shared expenses, newest first
// @Tags        groups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Group ID"
// @Success     200 {array} models.SharedExpense "Shared expenses"
// @Failure     400 {object} ErrorResponse "Invalid group ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Group not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /groups/{id}/expenses [get]
func (h *GroupHandler) ListExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	groupID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenses, err := h.groupService.ListExpenses(userID, groupID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

// CreateExpense handles creating a shared expense.
// @Summary     Create shared expense
// @Description Record a shared expense split among group members (editor or admin)
// @Tags        groups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                  true "Group ID"
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.SharedExpense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input or unbalanced splits"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Viewer cannot create expenses"
// @Failure     404 {object} ErrorResponse "Group not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /groups/{id}/expenses [post]
func (h *GroupHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	groupID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.groupService.CreateExpense(userID, groupID, services.ExpenseInput{
		Description: req.Description,
		TotalAmount: req.TotalAmount,
		Category:    req.Category,
		Date:        req.Date,
		Splits:      toSplitInputs(req.Splits),
		SplitEqual:  req.SplitEqual,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_SHARED_EXPENSE", "shared_expense", expense.ID, c.ClientIP(),
		map[string]interface{}{"group_id": groupID, "total_amount": req.TotalAmount})

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// UpdateExpense handles updating a shared expense.
// @Summary     Update shared expense
// @Description Update a shared expense or its splits (editor or admin)
// @Tags        groups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id         path int                  true "Group ID"
// @Param       expense_id path int                  true "Expense ID"
// @Param       request    body UpdateExpenseRequest true "Updated fields"
// @Success     200 {object} models.SharedExpense "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input or unbalanced splits"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Viewer cannot modify expenses"
// @Failure     404 {object} ErrorResponse "Group or expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /groups/{id}/expenses/{expense_id} [put]
func (h *GroupHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	groupID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "expense_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.groupService.UpdateExpense(userID, groupID, expenseID, services.ExpenseUpdate{
		Description: req.Description,
		TotalAmount: req.TotalAmount,
		Category:    req.Category,
		Date:        req.Date,
		Splits:      toSplitInputs(req.Splits),
		IsSettled:   req.IsSettled,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_SHARED_EXPENSE", "shared_expense", expenseID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense handles deleting a shared expense.
// @Summary     Delete shared expense
// @Description Delete a shared expense and its splits (editor or admin)
// @Tags        groups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id         path int true "Group ID"
// @Param       expense_id path int true "Expense ID"
// @Success     200 {object} MessageResponse "Expense deleted"
// @Failure     400 {object} ErrorResponse "Invalid IDs"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Viewer cannot delete expenses"
// @Failure     404 {object} ErrorResponse "Group or expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /groups/{id}/expenses/{expense_id} [delete]
func (h *GroupHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	groupID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "expense_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.groupService.DeleteExpense(userID, groupID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_SHARED_EXPENSE", "shared_expense", expenseID, c.ClientIP(),
		map[string]interface{}{"group_id": groupID})

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}
