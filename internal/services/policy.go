package services

import (
	"github.com/yungbote/sporthub-backend/internal/types"
)

// RolePolicy is the single place role capabilities are decided. Services
// ask the policy instead of comparing role strings inline.
type RolePolicy struct{}

func NewRolePolicy() RolePolicy {
	return RolePolicy{}
}

// IsAdmin reports whether the user holds any administrative role.
func (RolePolicy) IsAdmin(user *types.User) bool {
	if user == nil {
		return false
	}
	return user.Role == types.RoleAdmin || user.Role == types.RoleSuperAdmin
}

// CanPublishActivities gates activity and venue creation.
func (p RolePolicy) CanPublishActivities(user *types.User) bool {
	return p.IsAdmin(user)
}

// CanManageActivity gates update and status changes on one activity:
// the creator or a super admin.
func (RolePolicy) CanManageActivity(operator *types.User, activity *types.Activity) bool {
	if operator == nil || activity == nil {
		return false
	}
	if operator.Role == types.RoleSuperAdmin {
		return true
	}
	return operator.ID == activity.CreatorID
}

// CanModerateComments gates comment deletion beyond the author.
func (p RolePolicy) CanModerateComments(user *types.User) bool {
	return p.IsAdmin(user)
}
