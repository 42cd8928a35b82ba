package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/SealGummies/online-learning-platform/internal/app/models"
	"github.com/SealGummies/online-learning-platform/internal/db"
	"github.com/SealGummies/online-learning-platform/internal/pkg/apperrors"
	"github.com/SealGummies/online-learning-platform/internal/pkg/logger"
)

// submitMaxAttempts bounds retries when concurrent submissions conflict on
// the shared attempt counter.
const submitMaxAttempts = 3

// ExamService defines the interface for exam operations
type ExamService interface {
	GetExam(ctx context.Context, examID int64) (*models.Exam, error)
	Submit(ctx context.Context, examID, studentID int64, answers map[int64]string) (*models.ExamResult, error)
}

// examServiceImpl implements ExamService
type examServiceImpl struct {
	tx          db.Transactor
	exams       examStore
	enrollments enrollmentStore
	attempts    attemptStore
	now         func() time.Time
}

// NewExamService creates a new ExamService
func NewExamService(tx db.Transactor, exams examStore, enrollments enrollmentStore, attempts attemptStore) ExamService {
	return &examServiceImpl{
		tx:          tx,
		exams:       exams,
		enrollments: enrollments,
		attempts:    attempts,
		now:         time.Now,
	}
}

// GetExam retrieves a published exam's metadata
func (s *examServiceImpl) GetExam(ctx context.Context, examID int64) (*models.Exam, error) {
	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	if !exam.Published {
		return nil, apperrors.ErrExamUnavailable
	}
	return exam, nil
}

// Submit grades a student's answer set against the exam. All precondition
// checks, the attempt-counter increment, the grading computation, and the
// enrolled → in-progress transition happen inside one transaction, so a
// failed precondition leaves no partial state and two simultaneous
// submissions cannot both slip under the attempt limit.
func (s *examServiceImpl) Submit(ctx context.Context, examID, studentID int64, answers map[int64]string) (*models.ExamResult, error) {
	if examID <= 0 || studentID <= 0 {
		return nil, apperrors.NewValidationError("exam and student identifiers are required")
	}
	if answers == nil {
		answers = map[int64]string{}
	}

	var result *models.ExamResult
	err := s.tx.RunWithRetry(ctx, submitMaxAttempts, func(ctx context.Context, tx pgx.Tx) error {
		exam, err := s.exams.GetWithQuestionsTx(ctx, tx, examID)
		if err != nil {
			return err
		}

		enrollment, err := s.enrollments.GetActiveByStudentAndCourseTx(ctx, tx, studentID, exam.CourseID)
		if err != nil {
			if errors.Is(err, apperrors.ErrEnrollmentNotFound) {
				return apperrors.ErrNotEnrolled
			}
			return err
		}

		if !exam.Published {
			return apperrors.ErrExamUnavailable
		}

		now := s.now()
		if exam.StartDate != nil && now.Before(*exam.StartDate) {
			return apperrors.ErrExamNotOpen
		}
		if exam.EndDate != nil && now.After(*exam.EndDate) {
			return apperrors.ErrExamExpired
		}

		if exam.MaxAttempts > 0 {
			prior, err := s.attempts.CountTx(ctx, tx, examID, studentID)
			if err != nil {
				return err
			}
			if prior >= exam.MaxAttempts {
				return apperrors.ErrAttemptLimitExceeded
			}
			newCount, err := s.attempts.IncrementTx(ctx, tx, examID, studentID)
			if err != nil {
				return err
			}
			// When no counter row exists yet, FOR UPDATE locks nothing and
			// two overlapped submissions can both read a prior count of
			// zero. The incremented total is authoritative; failing here
			// rolls back the increment together with the grade.
			if newCount > exam.MaxAttempts {
				return apperrors.ErrAttemptLimitExceeded
			}
		}

		res := gradeExam(exam, answers, now)
		res.StudentID = studentID

		// A first graded submission moves the enrollment to in-progress.
		if enrollment.Status == models.EnrollmentStatusEnrolled {
			if err := s.enrollments.UpdateStatusTx(ctx, tx, enrollment.ID, models.EnrollmentStatusInProgress); err != nil {
				return err
			}
		}

		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int64("examId", examID).
		Int64("studentId", studentID).
		Int("score", result.Score).
		Int("percentage", result.Percentage).
		Msg("Exam submission graded")

	return result, nil
}
