package domain

import "time"

type Impact string

const (
	ImpactNegative Impact = "Negative"
	ImpactPositive Impact = "Positive"
	ImpactNeutral  Impact = "Neutral"
)

type Category string

const (
	CategoryBusinessProcess   Category = "Business Process"
	CategoryTechnicalSolution Category = "Technical Solution"
	CategoryProjectManagement Category = "Project Management"
)

type LessonStatus string

const (
	StatusPending  LessonStatus = "Pending"
	StatusApproved LessonStatus = "Approved"
	StatusRejected LessonStatus = "Rejected"
)

type LessonLearned struct {
	ID               string       `json:"id"`
	ProjectName      string       `json:"project_name"`
	DateCaptured     *time.Time   `json:"date_captured,omitempty"`
	CategoryMain     Category     `json:"category_main"`
	CategorySub      string       `json:"category_sub"`
	Description      string       `json:"description"`
	RootCause        string       `json:"root_cause"`
	Outcomes         string       `json:"outcomes"`
	Impact           Impact       `json:"impact"`
	SuggestedActions string       `json:"suggested_actions,omitempty"`
	Tags             []string     `json:"tags,omitempty"`
	Status           LessonStatus `json:"status"`
	SubmittedBy      string       `json:"submitted_by"`
	ApprovedBy       string       `json:"approved_by,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}
