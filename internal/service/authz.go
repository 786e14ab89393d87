package service

import "orgdesk/internal/domain"

// 授权判定是纯函数：入参 (调用者, 角色, 目标)，出参 允许与否 + 原因。
// 不触库，方便单测穷举。

func AllowUserUpdate(callerID string, callerRole domain.Role, target *domain.User) (bool, string) {
	if target.Role == domain.RoleAdmin && callerID != target.ID {
		return false, "admin accounts can only be changed by themselves"
	}
	if callerID == target.ID || callerRole == domain.RoleAdmin {
		return true, ""
	}
	return false, "you can only manage your own account"
}

func AllowUserDelete(callerID string, callerRole domain.Role, target *domain.User) (bool, string) {
	// admin 账号任何人都删不掉，包括它自己
	if target.Role == domain.RoleAdmin {
		return false, "admin accounts cannot be deleted"
	}
	if callerID == target.ID || callerRole == domain.RoleAdmin {
		return true, ""
	}
	return false, "you can only delete your own account"
}

func AllowRoleChange(callerRole domain.Role, target *domain.User, newRole domain.Role) (bool, string) {
	if newRole == target.Role {
		return true, ""
	}
	// 升降 admin 只有 admin 能做
	if callerRole != domain.RoleAdmin {
		return false, "only an admin may change roles"
	}
	return true, ""
}
