package domain

import "time"

type AuditAction string

const (
	AuditCreated  AuditAction = "Created"
	AuditUpdated  AuditAction = "Updated"
	AuditApproved AuditAction = "Approved"
	AuditRejected AuditAction = "Rejected"
)

type AuditLog struct {
	ID          string      `json:"id"`
	LessonID    string      `json:"lesson_id"`
	Action      AuditAction `json:"action"`
	PerformedBy string      `json:"performed_by"`
	CreatedAt   time.Time   `json:"created_at"`
}
