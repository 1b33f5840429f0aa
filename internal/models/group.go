package models

import "time"

// MemberRole represents a member's permission level within a group
type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleEditor MemberRole = "editor"
	MemberRoleViewer MemberRole = "viewer"
)

// CanEdit reports whether the role may create or modify group resources.
func (r MemberRole) CanEdit() bool {
	return r == MemberRoleAdmin || r == MemberRoleEditor
}

// Group is a set of users sharing expenses. The creator is always the
// first member with the admin role.
type Group struct {
	Base
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	CreatedBy   uint   `gorm:"not null;index" json:"created_by"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`

	Members []GroupMember `gorm:"foreignKey:GroupID" json:"members,omitempty"`
}

// GroupMember links a user to a group with a role.
type GroupMember struct {
	Base
	GroupID  uint       `gorm:"not null;index:idx_group_member,unique" json:"group_id"`
	UserID   uint       `gorm:"not null;index:idx_group_member,unique" json:"user_id"`
	Role     MemberRole `gorm:"not null;default:viewer" json:"role"`
	JoinedAt time.Time  `gorm:"not null" json:"joined_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
