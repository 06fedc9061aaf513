package authz

// Action tags the operation being authorized. The tag doubles as the
// action_type recorded on escalation requests and audit records.
type Action string

// Administrative actions require the admin role.
const (
	ActionViewProfile         Action = "view"
	ActionEditProfile         Action = "edit"
	ActionSuspend             Action = "suspend"
	ActionActivate            Action = "activate"
	ActionDelete              Action = "delete"
	ActionAssignDepartment    Action = "assign_department"
	ActionAssignShift         Action = "assign_shift"
	ActionDeleteShift         Action = "delete_shift"
	ActionExportData          Action = "export_data"
	ActionUpdateManagerStatus Action = "update_manager_status"
	ActionSendNotification    Action = "send_notification"
)

// ActionDecideTimeOff is open to managers as well as admins.
const ActionDecideTimeOff Action = "decide_time_off"

// Administrative reports whether the action belongs to the admin-only family.
func (a Action) Administrative() bool {
	switch a {
	case ActionViewProfile, ActionEditProfile, ActionSuspend, ActionActivate,
		ActionDelete, ActionAssignDepartment, ActionAssignShift, ActionDeleteShift,
		ActionExportData, ActionUpdateManagerStatus, ActionSendNotification:
		return true
	default:
		return false
	}
}

// String returns the action tag.
func (a Action) String() string {
	return string(a)
}
