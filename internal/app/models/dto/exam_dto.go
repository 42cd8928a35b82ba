package dto

import (
	"time"

	"github.com/SealGummies/online-learning-platform/internal/app/models"
)

// SubmitExamRequest is the body of an exam submission. Keys are question
// identifiers; missing questions count as unanswered, not as errors.
type SubmitExamRequest struct {
	Answers map[int64]string `json:"answers" binding:"required"`
}

// QuestionResultResponse is one entry of the per-question breakdown
type QuestionResultResponse struct {
	QuestionID      int64  `json:"questionId"`
	SubmittedAnswer string `json:"submittedAnswer"`
	CorrectAnswer   string `json:"correctAnswer"`
	IsCorrect       bool   `json:"isCorrect"`
	PointsAwarded   int    `json:"pointsAwarded"`
}

// ExamResultResponse is the serialized grading outcome
type ExamResultResponse struct {
	ExamID      int64                    `json:"examId"`
	StudentID   int64                    `json:"studentId"`
	Score       int                      `json:"score"`
	TotalPoints int                      `json:"totalPoints"`
	Percentage  int                      `json:"percentage"`
	SubmittedAt time.Time                `json:"submittedAt"`
	Breakdown   []QuestionResultResponse `json:"breakdown"`
}

// NewExamResultResponse maps a grading result to its response shape
func NewExamResultResponse(r *models.ExamResult) ExamResultResponse {
	resp := ExamResultResponse{
		ExamID:      r.ExamID,
		StudentID:   r.StudentID,
		Score:       r.Score,
		TotalPoints: r.TotalPoints,
		Percentage:  r.Percentage,
		SubmittedAt: r.SubmittedAt,
		Breakdown:   make([]QuestionResultResponse, 0, len(r.Breakdown)),
	}
	for _, b := range r.Breakdown {
		resp.Breakdown = append(resp.Breakdown, QuestionResultResponse(b))
	}
	return resp
}

// ExamResponse is the student-facing view of an exam, without answer markers
type ExamResponse struct {
	ID          int64      `json:"id"`
	CourseID    int64      `json:"courseId"`
	Title       string     `json:"title"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	MaxAttempts int        `json:"maxAttempts"`
	TotalPoints int        `json:"totalPoints"`
}

// NewExamResponse maps an exam model to its student-facing shape
func NewExamResponse(e *models.Exam) ExamResponse {
	return ExamResponse{
		ID:          e.ID,
		CourseID:    e.CourseID,
		Title:       e.Title,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		MaxAttempts: e.MaxAttempts,
		TotalPoints: e.TotalPoints(),
	}
}
