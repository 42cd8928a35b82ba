package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/SealGummies/online-learning-platform/internal/app/models"
	"github.com/SealGummies/online-learning-platform/internal/app/models/dto"
	"github.com/SealGummies/online-learning-platform/internal/db"
	"github.com/SealGummies/online-learning-platform/internal/pkg/apperrors"
	"github.com/SealGummies/online-learning-platform/internal/pkg/logger"
)

// enrollMaxAttempts bounds retries when concurrent enrollments conflict on
// the shared course counter. A duplicate enrollment is terminal and is never
// retried.
const enrollMaxAttempts = 3

// EnrollmentService defines the interface for enrollment operations
type EnrollmentService interface {
	Enroll(ctx context.Context, studentID, courseID int64, payment *dto.PaymentDetails) (*models.Enrollment, error)
	Drop(ctx context.Context, studentID, enrollmentID int64) error
	GetEnrollment(ctx context.Context, studentID, enrollmentID int64) (*models.Enrollment, error)
	ListStudentEnrollments(ctx context.Context, studentID int64, status models.EnrollmentStatus, page, pageSize int) ([]models.Enrollment, int, error)
}

// enrollmentServiceImpl implements EnrollmentService
type enrollmentServiceImpl struct {
	tx          db.Transactor
	enrollments enrollmentStore
	courses     courseStore
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(tx db.Transactor, enrollments enrollmentStore, courses courseStore) EnrollmentService {
	return &enrollmentServiceImpl{
		tx:          tx,
		enrollments: enrollments,
		courses:     courses,
	}
}

// Enroll creates an enrollment for (studentID, courseID) and increments the
// course's enrollment counter in the same transaction, so the two writes
// either both persist or neither does. The store's unique index decides the
// winner when concurrent callers race on the same pair: exactly one insert
// succeeds, the rest observe ErrDuplicateEnrollment either directly or after
// their transient counter conflict retries converge on it.
func (s *enrollmentServiceImpl) Enroll(ctx context.Context, studentID, courseID int64, payment *dto.PaymentDetails) (*models.Enrollment, error) {
	if studentID <= 0 || courseID <= 0 {
		return nil, apperrors.NewValidationError("student and course identifiers are required")
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.Published {
		return nil, apperrors.ErrCourseUnavailable
	}

	var paymentRef *string
	if course.PriceCents > 0 {
		if payment == nil || payment.Reference == "" {
			return nil, apperrors.NewValidationError("payment details are required for a paid course")
		}
		paymentRef = &payment.Reference
	}

	var enrollment *models.Enrollment
	err = s.tx.RunWithRetry(ctx, enrollMaxAttempts, func(ctx context.Context, tx pgx.Tx) error {
		e := &models.Enrollment{
			StudentID:  studentID,
			CourseID:   courseID,
			Status:     models.EnrollmentStatusEnrolled,
			PaymentRef: paymentRef,
			EnrolledAt: time.Now(),
		}
		if err := s.enrollments.CreateTx(ctx, tx, e); err != nil {
			return err
		}
		if err := s.courses.IncrementEnrollmentCountTx(ctx, tx, courseID, 1); err != nil {
			return err
		}
		enrollment = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int64("studentId", studentID).
		Int64("courseId", courseID).
		Int64("enrollmentId", enrollment.ID).
		Msg("Student enrolled")

	return enrollment, nil
}

// Drop transitions a student's enrollment to dropped and decrements the
// course counter as one atomic sequence.
func (s *enrollmentServiceImpl) Drop(ctx context.Context, studentID, enrollmentID int64) error {
	if studentID <= 0 || enrollmentID <= 0 {
		return apperrors.NewValidationError("student and enrollment identifiers are required")
	}

	var enrollment *models.Enrollment
	return s.tx.RunSequence(ctx,
		func(ctx context.Context, tx pgx.Tx) error {
			e, err := s.enrollments.GetByIDTx(ctx, tx, enrollmentID)
			if err != nil {
				return err
			}
			if e.StudentID != studentID {
				return apperrors.NewForbiddenError("enrollment belongs to another student")
			}
			if e.Status == models.EnrollmentStatusDropped {
				return apperrors.ErrEnrollmentDropped
			}
			if err := s.enrollments.UpdateStatusTx(ctx, tx, e.ID, models.EnrollmentStatusDropped); err != nil {
				return err
			}
			enrollment = e
			return nil
		},
		func(ctx context.Context, tx pgx.Tx) error {
			return s.courses.IncrementEnrollmentCountTx(ctx, tx, enrollment.CourseID, -1)
		},
	)
}

// GetEnrollment retrieves one of the student's own enrollments
func (s *enrollmentServiceImpl) GetEnrollment(ctx context.Context, studentID, enrollmentID int64) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment.StudentID != studentID {
		return nil, apperrors.NewForbiddenError("enrollment belongs to another student")
	}
	return enrollment, nil
}

// ListStudentEnrollments retrieves a student's enrollments with optional
// status filtering and pagination.
func (s *enrollmentServiceImpl) ListStudentEnrollments(ctx context.Context, studentID int64, status models.EnrollmentStatus, page, pageSize int) ([]models.Enrollment, int, error) {
	if status != "" {
		switch status {
		case models.EnrollmentStatusEnrolled, models.EnrollmentStatusInProgress,
			models.EnrollmentStatusCompleted, models.EnrollmentStatusDropped:
		default:
			return nil, 0, apperrors.NewValidationError(fmt.Sprintf("unknown enrollment status %q", status))
		}
	}
	return s.enrollments.ListByStudent(ctx, studentID, status, page, pageSize)
}
