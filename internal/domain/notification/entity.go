package notification

import (
	"time"
)

// Kind is the trigger a notification was raised for
type Kind string

const (
	KindLeaveSubmitted      Kind = "leave_submitted"
	KindLeaveApproved       Kind = "leave_approved"
	KindLeaveRejected       Kind = "leave_rejected"
	KindPayslipReady        Kind = "payslip_ready"
	KindAnnouncementCreated Kind = "announcement_created"
)

// AllKinds returns all available notification kinds
func AllKinds() []Kind {
	return []Kind{
		KindLeaveSubmitted,
		KindLeaveApproved,
		KindLeaveRejected,
		KindPayslipReady,
		KindAnnouncementCreated,
	}
}

func (k Kind) IsValid() bool {
	for _, known := range AllKinds() {
		if k == known {
			return true
		}
	}
	return false
}

// Related entity types carried on notices
const (
	EntityLeaveRequest = "leave_request"
	EntityPayslip      = "payslip"
	EntityAnnouncement = "announcement"
)

// Notice is what a business operation hands to the Notifier.
type Notice struct {
	UserID            string
	Kind              Kind
	Title             string
	Description       string
	RelatedEntityType string
	RelatedEntityID   string
}

// Notification represents a stored notification
type Notification struct {
	ID                string
	UserID            string
	Kind              Kind
	Title             string
	Description       string
	RelatedEntityType string
	RelatedEntityID   string
	IsRead            bool
	ReadAt            *time.Time
	CreatedAt         time.Time
}
