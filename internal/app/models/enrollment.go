package models

import "time"

// EnrollmentStatus represents the lifecycle state of an enrollment
type EnrollmentStatus string

const (
	EnrollmentStatusEnrolled   EnrollmentStatus = "enrolled"
	EnrollmentStatusInProgress EnrollmentStatus = "in-progress"
	EnrollmentStatusCompleted  EnrollmentStatus = "completed"
	EnrollmentStatusDropped    EnrollmentStatus = "dropped"
)

// Active reports whether the status counts toward the uniqueness rule:
// at most one non-dropped enrollment may exist per (student, course) pair.
func (s EnrollmentStatus) Active() bool {
	return s == EnrollmentStatusEnrolled || s == EnrollmentStatusInProgress || s == EnrollmentStatusCompleted
}

// Enrollment ties a student to a course. Enrollments are never physically
// removed, only status-transitioned; dropping one frees the (student, course)
// pair for re-enrollment.
type Enrollment struct {
	ID            int64            `json:"id"`
	StudentID     int64            `json:"studentId"`
	CourseID      int64            `json:"courseId"`
	Status        EnrollmentStatus `json:"status"`
	CompletionPct int              `json:"completionPct"`
	PaymentRef    *string          `json:"paymentRef,omitempty"`   // Nullable
	CertificateID *string          `json:"certificateId,omitempty"` // Set on completion
	Rating        *int             `json:"rating,omitempty"`        // 1-5, optional
	EnrolledAt    time.Time        `json:"enrolledAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`

	// Relations (populated when needed)
	Course *Course `json:"course,omitempty"`
}
