package dto

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// ActionResult is the uniform outcome shape returned by orchestrated
// admin mutations. Pending marks outcomes that await super-admin approval.
type ActionResult struct {
	Success bool   `json:"success"`
	Pending bool   `json:"pending,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Succeeded builds a successful result with an optional message.
func Succeeded(message string) ActionResult {
	return ActionResult{Success: true, Message: message}
}

// Failed builds a failed result carrying the denial or store error.
func Failed(reason string) ActionResult {
	return ActionResult{Success: false, Error: reason}
}

// PendingApproval builds the result returned when an action was turned into
// an escalation request instead of being performed.
func PendingApproval() ActionResult {
	return ActionResult{
		Success: false,
		Pending: true,
		Message: "Request sent to super admin for approval",
	}
}
