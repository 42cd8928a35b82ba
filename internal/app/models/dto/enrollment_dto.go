package dto

import (
	"time"

	"github.com/SealGummies/online-learning-platform/internal/app/models"
)

// PaymentDetails carries the caller's payment reference for paid courses.
// Payment processing itself happens in an external collaborator; the
// enrollment transaction only records the reference.
type PaymentDetails struct {
	Method    string `json:"method" binding:"omitempty,oneof=card voucher transfer"`
	Reference string `json:"reference"`
}

// EnrollRequest is the body of an enrollment creation call
type EnrollRequest struct {
	Payment *PaymentDetails `json:"payment,omitempty"`
}

// EnrollmentResponse is the serialized view of an enrollment
type EnrollmentResponse struct {
	ID            int64     `json:"id"`
	StudentID     int64     `json:"studentId"`
	CourseID      int64     `json:"courseId"`
	CourseTitle   string    `json:"courseTitle,omitempty"`
	Status        string    `json:"status"`
	CompletionPct int       `json:"completionPct"`
	CertificateID *string   `json:"certificateId,omitempty"`
	Rating        *int      `json:"rating,omitempty"`
	EnrolledAt    time.Time `json:"enrolledAt"`
}

// NewEnrollmentResponse maps an enrollment model to its response shape
func NewEnrollmentResponse(e *models.Enrollment) EnrollmentResponse {
	resp := EnrollmentResponse{
		ID:            e.ID,
		StudentID:     e.StudentID,
		CourseID:      e.CourseID,
		Status:        string(e.Status),
		CompletionPct: e.CompletionPct,
		CertificateID: e.CertificateID,
		Rating:        e.Rating,
		EnrolledAt:    e.EnrolledAt,
	}
	if e.Course != nil {
		resp.CourseTitle = e.Course.Title
	}
	return resp
}

// EnrollmentListResponse is the paginated enrollment listing
type EnrollmentListResponse struct {
	Enrollments    []EnrollmentResponse `json:"enrollments"`
	PaginationInfo PaginationInfo       `json:"pagination"`
}
