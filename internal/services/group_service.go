package services

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// groupService manages expense-sharing groups, membership, and shared
// expenses. Cross-user access to a group fails with NotFound rather than
// Forbidden so group existence never leaks.
type groupService struct {
	db          *gorm.DB
	userService UserServicer
}

// NewGroupService creates a new GroupServicer.
func NewGroupService(db *gorm.DB, userService UserServicer) GroupServicer {
	return &groupService{db: db, userService: userService}
}

// SplitEqually divides total across the members, first split absorbing
// the rounding remainder so the amounts always sum exactly to total.
func SplitEqually(total int64, memberIDs []uint) []models.ExpenseSplit {
	count := int64(len(memberIDs))
	if count == 0 {
		return nil
	}

	share := total / count
	remainder := total - share*count
	percentage := math.Round(100.0/float64(count)*100) / 100

	splits := make([]models.ExpenseSplit, 0, count)
	for i, memberID := range memberIDs {
		amount := share
		if i == 0 {
			amount += remainder
		}
		splits = append(splits, models.ExpenseSplit{
			UserID:     memberID,
			Amount:     amount,
			Percentage: percentage,
		})
	}
	return splits
}

// memberRole returns the caller's role in the group, or ErrGroupNotFound
// when the group does not exist or the caller is not a member.
func (s *groupService) memberRole(userID, groupID uint) (models.MemberRole, error) {
	var member models.GroupMember
	err := s.db.Joins("JOIN groups ON groups.id = group_members.group_id").
		Where("group_members.group_id = ? AND group_members.user_id = ? AND groups.is_active = ? AND groups.deleted_at IS NULL",
			groupID, userID, true).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.ErrGroupNotFound
		}
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return member.Role, nil
}

func (s *groupService) loadGroup(groupID uint) (*models.Group, error) {
	var group models.Group
	if err := s.db.Preload("Members").Preload("Members.User").
		Where("id = ? AND is_active = ?", groupID, true).
		First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &group, nil
}

// CreateGroup creates a group with the creator as its first admin member.
func (s *groupService) CreateGroup(userID uint, name, description string) (*models.Group, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}

	group := &models.Group{
		Name:        name,
		Description: description,
		CreatedBy:   userID,
		IsActive:    true,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		member := &models.GroupMember{
			GroupID:  group.ID,
			UserID:   userID,
			Role:     models.MemberRoleAdmin,
			JoinedAt: time.Now(),
		}
		if err := tx.Create(member).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.loadGroup(group.ID)
}

// GetUserGroups returns every active group the user is a member of.
func (s *groupService) GetUserGroups(userID uint) ([]models.Group, error) {
	var groups []models.Group
	if err := s.db.Preload("Members").Preload("Members.User").
		Joins("JOIN group_members ON group_members.group_id = groups.id AND group_members.deleted_at IS NULL").
		Where("group_members.user_id = ? AND groups.is_active = ?", userID, true).
		Order("groups.created_at DESC").
		Find(&groups).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return groups, nil
}

// GetGroupByID returns a group the user is a member of.
func (s *groupService) GetGroupByID(userID, groupID uint) (*models.Group, error) {
	if _, err := s.memberRole(userID, groupID); err != nil {
		return nil, err
	}
	return s.loadGroup(groupID)
}

// UpdateGroup renames a group. Admins only.
func (s *groupService) UpdateGroup(userID, groupID uint, name, description string) (*models.Group, error) {
	role, err := s.memberRole(userID, groupID)
	if err != nil {
		return nil, err
	}
	if role != models.MemberRoleAdmin {
		return nil, apperrors.ErrForbidden
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if description != "" {
		updates["description"] = description
	}
	if len(updates) > 0 {
		if err := s.db.Model(&models.Group{}).Where("id = ?", groupID).
			Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.loadGroup(groupID)
}

// DeleteGroup deactivates a group. Admins only.
func (s *groupService) DeleteGroup(userID, groupID uint) error {
	role, err := s.memberRole(userID, groupID)
	if err != nil {
		return err
	}
	if role != models.MemberRoleAdmin {
		return apperrors.ErrForbidden
	}

	if err := s.db.Model(&models.Group{}).Where("id = ?", groupID).
		Update("is_active", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// AddMember adds a user to the group by email. Admins and editors only.
func (s *groupService) AddMember(userID, groupID uint, email string, role models.MemberRole) (*models.Group, error) {
	callerRole, err := s.memberRole(userID, groupID)
	if err != nil {
		return nil, err
	}
	if !callerRole.CanEdit() {
		return nil, apperrors.ErrForbidden
	}
	if role != models.MemberRoleAdmin && role != models.MemberRoleEditor && role != models.MemberRoleViewer {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "role must be admin, editor, or viewer")
	}

	user, err := s.userService.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, user.ID).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateMember
	}

	member := &models.GroupMember{
		GroupID:  groupID,
		UserID:   user.ID,
		Role:     role,
		JoinedAt: time.Now(),
	}
	if err := s.db.Create(member).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.loadGroup(groupID)
}

// UpdateMemberRole changes another member's role. Only the group creator
// may reassign roles.
func (s *groupService) UpdateMemberRole(userID, groupID, memberID uint, role models.MemberRole) (*models.Group, error) {
	if _, err := s.memberRole(userID, groupID); err != nil {
		return nil, err
	}
	var group models.Group
	if err := s.db.Where("id = ?", groupID).First(&group).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if group.CreatedBy != userID {
		return nil, apperrors.ErrForbidden
	}
	if role != models.MemberRoleAdmin && role != models.MemberRoleEditor && role != models.MemberRoleViewer {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "role must be admin, editor, or viewer")
	}

	var member models.GroupMember
	if err := s.db.Where("id = ? AND group_id = ?", memberID, groupID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(&member).Update("role", role).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.loadGroup(groupID)
}

// RemoveMember removes a member from the group. Admins and editors only.
func (s *groupService) RemoveMember(userID, groupID, memberID uint) error {
	callerRole, err := s.memberRole(userID, groupID)
	if err != nil {
		return err
	}
	if !callerRole.CanEdit() {
		return apperrors.ErrForbidden
	}

	var member models.GroupMember
	if err := s.db.Where("id = ? AND group_id = ?", memberID, groupID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMemberNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&member).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// PreviewEqualSplit returns how a total would divide equally across the
// group's current members, without recording anything.
func (s *groupService) PreviewEqualSplit(userID, groupID uint, total int64) ([]models.ExpenseSplit, error) {
	if _, err := s.memberRole(userID, groupID); err != nil {
		return nil, err
	}
	if total < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "total amount must not be negative")
	}
	return s.buildSplits(groupID, total, nil, true)
}

// ListExpenses returns the group's shared expenses, newest first.
func (s *groupService) ListExpenses(userID, groupID uint) ([]models.SharedExpense, error) {
	if _, err := s.memberRole(userID, groupID); err != nil {
		return nil, err
	}

	var expenses []models.SharedExpense
	if err := s.db.Preload("Splits").
		Where("group_id = ?", groupID).
		Order("date DESC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

// buildSplits resolves the split set for an expense: equal division
// across current members, or explicit splits checked to sum exactly to
// the total.
func (s *groupService) buildSplits(groupID uint, total int64, inputs []SplitInput, splitEqual bool) ([]models.ExpenseSplit, error) {
	if splitEqual || len(inputs) == 0 {
		var members []models.GroupMember
		if err := s.db.Where("group_id = ?", groupID).Order("id ASC").Find(&members).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		memberIDs := make([]uint, 0, len(members))
		for _, member := range members {
			memberIDs = append(memberIDs, member.UserID)
		}
		return SplitEqually(total, memberIDs), nil
	}

	var sum int64
	splits := make([]models.ExpenseSplit, 0, len(inputs))
	for _, input := range inputs {
		if input.Amount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "split amount must not be negative")
		}
		sum += input.Amount
		splits = append(splits, models.ExpenseSplit{
			UserID:     input.UserID,
			Amount:     input.Amount,
			Percentage: input.Percentage,
		})
	}
	if sum != total {
		return nil, apperrors.ErrUnbalancedSplit
	}
	return splits, nil
}

// CreateExpense records a shared expense with its splits. Editors and
// admins only.
func (s *groupService) CreateExpense(userID, groupID uint, input ExpenseInput) (*models.SharedExpense, error) {
	role, err := s.memberRole(userID, groupID)
	if err != nil {
		return nil, err
	}
	if !role.CanEdit() {
		return nil, apperrors.ErrForbidden
	}
	if input.Description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if input.TotalAmount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "total amount must not be negative")
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	splits, err := s.buildSplits(groupID, input.TotalAmount, input.Splits, input.SplitEqual)
	if err != nil {
		return nil, err
	}

	expense := &models.SharedExpense{
		GroupID:     groupID,
		CreatedBy:   userID,
		Description: input.Description,
		TotalAmount: input.TotalAmount,
		Category:    input.Category,
		Date:        date,
		Splits:      splits,
	}
	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

func (s *groupService) getExpense(groupID, expenseID uint) (*models.SharedExpense, error) {
	var expense models.SharedExpense
	if err := s.db.Preload("Splits").
		Where("id = ? AND group_id = ?", expenseID, groupID).
		First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense edits a shared expense. Replacing the splits or the total
// re-validates that they balance. Editors and admins only.
func (s *groupService) UpdateExpense(userID, groupID, expenseID uint, update ExpenseUpdate) (*models.SharedExpense, error) {
	role, err := s.memberRole(userID, groupID)
	if err != nil {
		return nil, err
	}
	if !role.CanEdit() {
		return nil, apperrors.ErrForbidden
	}

	expense, err := s.getExpense(groupID, expenseID)
	if err != nil {
		return nil, err
	}

	total := expense.TotalAmount
	if update.TotalAmount != nil {
		if *update.TotalAmount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "total amount must not be negative")
		}
		total = *update.TotalAmount
	}

	var newSplits []models.ExpenseSplit
	if update.Splits != nil {
		newSplits, err = s.buildSplits(groupID, total, update.Splits, false)
		if err != nil {
			return nil, err
		}
	} else if update.TotalAmount != nil {
		var sum int64
		for _, split := range expense.Splits {
			sum += split.Amount
		}
		if sum != total {
			return nil, apperrors.ErrUnbalancedSplit
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := make(map[string]interface{})
		if update.Description != nil {
			updates["description"] = *update.Description
		}
		if update.TotalAmount != nil {
			updates["total_amount"] = *update.TotalAmount
		}
		if update.Category != nil {
			updates["category"] = *update.Category
		}
		if update.Date != nil {
			updates["date"] = *update.Date
		}
		if update.IsSettled != nil {
			updates["is_settled"] = *update.IsSettled
		}
		if len(updates) > 0 {
			if err := tx.Model(expense).Updates(updates).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		if newSplits != nil {
			if err := tx.Where("shared_expense_id = ?", expense.ID).
				Delete(&models.ExpenseSplit{}).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			for i := range newSplits {
				newSplits[i].SharedExpenseID = expense.ID
			}
			if err := tx.Create(&newSplits).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			expense.Splits = newSplits
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.getExpense(groupID, expenseID)
}

// DeleteExpense removes a shared expense and its splits. Editors and
// admins only.
func (s *groupService) DeleteExpense(userID, groupID, expenseID uint) error {
	role, err := s.memberRole(userID, groupID)
	if err != nil {
		return err
	}
	if !role.CanEdit() {
		return apperrors.ErrForbidden
	}

	expense, err := s.getExpense(groupID, expenseID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("shared_expense_id = ?", expense.ID).
			Delete(&models.ExpenseSplit{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(expense).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
