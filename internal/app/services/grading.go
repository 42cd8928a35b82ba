package services

import (
	"math"
	"time"

	"github.com/SealGummies/online-learning-platform/internal/app/models"
)

// gradeExam scores a submitted answer set against the exam's questions, in
// exam order. It is a pure function of its inputs: the same exam and answers
// always produce the same result. An unanswered question scores zero points,
// it is never an error. Percentage rounds half away from zero.
func gradeExam(exam *models.Exam, answers map[int64]string, submittedAt time.Time) *models.ExamResult {
	result := &models.ExamResult{
		ExamID:      exam.ID,
		TotalPoints: exam.TotalPoints(),
		SubmittedAt: submittedAt,
		Breakdown:   make([]models.QuestionResult, 0, len(exam.Questions)),
	}

	for _, q := range exam.Questions {
		submitted, answered := answers[q.ID]
		correct := answered && submitted == q.CorrectAnswer

		awarded := 0
		if correct {
			awarded = q.Points
			result.Score += awarded
		}

		result.Breakdown = append(result.Breakdown, models.QuestionResult{
			QuestionID:      q.ID,
			SubmittedAnswer: submitted,
			CorrectAnswer:   q.CorrectAnswer,
			IsCorrect:       correct,
			PointsAwarded:   awarded,
		})
	}

	if result.TotalPoints > 0 {
		result.Percentage = int(math.Round(float64(result.Score) / float64(result.TotalPoints) * 100))
	}

	return result
}
