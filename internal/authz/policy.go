// Package authz 将 (角色, 资源, 动作) 的权限判定与各角色的行级可见范围
// 收敛为一张查找表，替代散落在各视图里的 if-role-then-filter 分支。
// 新增角色或资源时只改表，不改调用方。
package authz

import "github.com/justkurama/django2024-tsis2/internal/model"

// Resource 受控资源
type Resource string

const (
	ResourceStudent     Resource = "students"
	ResourceCourse      Resource = "courses"
	ResourceEnrollment  Resource = "enrollments"
	ResourceGrade       Resource = "grades"
	ResourceAttendance  Resource = "attendances"
	ResourceAccountRole Resource = "account_role"
	ResourceAnalytics   Resource = "analytics"
	ResourceExport      Resource = "export"
)

// Action 资源上的动作
type Action string

const (
	ActionList   Action = "list"
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionMark   Action = "mark" // 学生确认本人考勤
)

type actionSet map[Action]struct{}

func actions(as ...Action) actionSet {
	set := make(actionSet, len(as))
	for _, a := range as {
		set[a] = struct{}{}
	}
	return set
}

// capabilities 角色 → 资源 → 动作集
// 课程列表/详情对匿名开放，不经过本表（路由层直接放行）
var capabilities = map[string]map[Resource]actionSet{
	model.RoleStudent: {
		ResourceStudent:    actions(ActionRead),
		ResourceCourse:     actions(ActionList, ActionRead),
		ResourceEnrollment: actions(ActionList, ActionRead),
		ResourceGrade:      actions(ActionList, ActionRead),
		ResourceAttendance: actions(ActionMark),
		ResourceAnalytics:  actions(ActionRead),
	},
	model.RoleTeacher: {
		ResourceStudent:    actions(ActionList, ActionRead, ActionUpdate, ActionDelete),
		ResourceCourse:     actions(ActionList, ActionRead, ActionCreate, ActionUpdate, ActionDelete),
		ResourceEnrollment: actions(ActionList, ActionRead, ActionCreate, ActionDelete),
		ResourceGrade:      actions(ActionList, ActionRead, ActionCreate, ActionUpdate, ActionDelete),
		ResourceAttendance: actions(ActionList, ActionCreate),
		ResourceAnalytics:  actions(ActionRead),
		ResourceExport:     actions(ActionRead),
	},
	model.RoleAdmin: {
		ResourceStudent:     actions(ActionList, ActionRead, ActionUpdate, ActionDelete),
		ResourceCourse:      actions(ActionList, ActionRead, ActionCreate, ActionUpdate, ActionDelete),
		ResourceEnrollment:  actions(ActionList, ActionRead, ActionCreate, ActionDelete),
		ResourceGrade:       actions(ActionList, ActionRead, ActionCreate, ActionUpdate, ActionDelete),
		ResourceAttendance:  actions(ActionList, ActionCreate),
		ResourceAccountRole: actions(ActionUpdate), // 角色指派为 admin 独占
		ResourceAnalytics:   actions(ActionRead),
		ResourceExport:      actions(ActionRead),
	},
}

// Can 判定角色是否允许对资源执行动作
// 未知角色一律拒绝
func Can(role string, res Resource, act Action) bool {
	byResource, ok := capabilities[role]
	if !ok {
		return false
	}
	set, ok := byResource[res]
	if !ok {
		return false
	}
	_, ok = set[act]
	return ok
}
