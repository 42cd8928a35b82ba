package models

import "time"

// Exam represents a graded assessment attached to a course
type Exam struct {
	ID          int64      `json:"id"`
	CourseID    int64      `json:"courseId"`
	Title       string     `json:"title"`
	Published   bool       `json:"published"`
	StartDate   *time.Time `json:"startDate,omitempty"` // Submission window, optional
	EndDate     *time.Time `json:"endDate,omitempty"`
	MaxAttempts int        `json:"maxAttempts"` // 0 means unlimited

	Questions []Question `json:"questions,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TotalPoints is derived from the questions, never entered independently.
func (e *Exam) TotalPoints() int {
	total := 0
	for _, q := range e.Questions {
		total += q.Points
	}
	return total
}

// Question is a single exam question with its correct-answer marker
type Question struct {
	ID            int64    `json:"id"`
	ExamID        int64    `json:"examId"`
	Position      int      `json:"position"`
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"-"` // Never serialized to students
	Points        int      `json:"points"`
}

// QuestionResult is the per-question grading breakdown entry
type QuestionResult struct {
	QuestionID      int64  `json:"questionId"`
	SubmittedAnswer string `json:"submittedAnswer"`
	CorrectAnswer   string `json:"correctAnswer"`
	IsCorrect       bool   `json:"isCorrect"`
	PointsAwarded   int    `json:"pointsAwarded"`
}

// ExamResult is the output of grading one submission. It is computed inside
// the submission transaction; persisting it for retention is the caller's
// concern.
type ExamResult struct {
	ExamID      int64            `json:"examId"`
	StudentID   int64            `json:"studentId"`
	Score       int              `json:"score"`
	TotalPoints int              `json:"totalPoints"`
	Percentage  int              `json:"percentage"`
	SubmittedAt time.Time        `json:"submittedAt"`
	Breakdown   []QuestionResult `json:"breakdown"`
}

// ExamAttempt is the per (student, exam) tally of graded submissions,
// consulted and incremented inside the same transaction as grading.
type ExamAttempt struct {
	ExamID    int64     `json:"examId"`
	StudentID int64     `json:"studentId"`
	Attempts  int       `json:"attempts"`
	UpdatedAt time.Time `json:"updatedAt"`
}
