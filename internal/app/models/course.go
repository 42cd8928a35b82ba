package models

import "time"

// Course represents a published or draft course.
// EnrollmentCount is a denormalized aggregate: it is only mutated inside the
// same transaction that creates or drops an Enrollment, so it always equals
// the number of non-dropped enrollments for the course.
type Course struct {
	ID           int64   `json:"id"`
	InstructorID int64   `json:"instructorId"`
	Title        string  `json:"title"`
	Description  *string `json:"description,omitempty"` // Nullable
	Category     string  `json:"category"`
	PriceCents   int64   `json:"priceCents"`
	Published    bool    `json:"published"`

	EnrollmentCount int `json:"enrollmentCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
