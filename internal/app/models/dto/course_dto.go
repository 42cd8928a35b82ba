package dto

import (
	"time"

	"github.com/SealGummies/online-learning-platform/internal/app/models"
)

// CourseResponse is the serialized catalog view of a course
type CourseResponse struct {
	ID              int64     `json:"id"`
	InstructorID    int64     `json:"instructorId"`
	Title           string    `json:"title"`
	Description     *string   `json:"description,omitempty"`
	Category        string    `json:"category"`
	PriceCents      int64     `json:"priceCents"`
	EnrollmentCount int       `json:"enrollmentCount"`
	CreatedAt       time.Time `json:"createdAt"`
}

// NewCourseResponse maps a course model to its response shape
func NewCourseResponse(c *models.Course) CourseResponse {
	return CourseResponse{
		ID:              c.ID,
		InstructorID:    c.InstructorID,
		Title:           c.Title,
		Description:     c.Description,
		Category:        c.Category,
		PriceCents:      c.PriceCents,
		EnrollmentCount: c.EnrollmentCount,
		CreatedAt:       c.CreatedAt,
	}
}

// CourseListResponse is the paginated course catalog listing
type CourseListResponse struct {
	Courses        []CourseResponse `json:"courses"`
	PaginationInfo PaginationInfo   `json:"pagination"`
}
