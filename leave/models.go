package leave

// Status is the approval state of a leave request.
type Status = string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Request is a leave request as the backend reports it.
type Request struct {
	ID              int64    `json:"id,omitempty"`
	LeaveType       string   `json:"leaveType,omitempty"`
	StartDate       string   `json:"startDate,omitempty"`
	EndDate         string   `json:"endDate,omitempty"`
	Reason          string   `json:"reason,omitempty"`
	Status          Status   `json:"status,omitempty"`
	ApproverComment string   `json:"approverComment,omitempty"`
	DocumentURLs    []string `json:"documentUrls,omitempty"`
}

// SubmitPayload is the body posted to create a leave request. Dates are
// ISO-8601 days (YYYY-MM-DD), matching what the backend expects.
type SubmitPayload struct {
	LeaveType string `json:"leaveType"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}

// Balance is one row of the current user's leave balance view.
type Balance struct {
	LeaveType     string  `json:"leaveType"`
	Balance       float64 `json:"balance"`
	TotalDays     float64 `json:"totalDays"`
	UsedDays      float64 `json:"usedDays"`
	RemainingDays float64 `json:"remainingDays"`
}

// Type is a configurable leave category (admin-managed).
type Type struct {
	ID                         int64   `json:"id,omitempty"`
	Name                       string  `json:"name"`
	Description                string  `json:"description"`
	Code                       string  `json:"code"`
	DefaultBalance             float64 `json:"defaultBalance"`
	MonthlyAccrual             float64 `json:"monthlyAccrual"`
	MaxCarryForward            int     `json:"maxCarryForward"`
	RequiresMedicalCertificate bool    `json:"requiresMedicalCertificate"`
}
