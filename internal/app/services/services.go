package services

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/SealGummies/online-learning-platform/internal/app/models"
)

// Services defined in this package:
// - EnrollmentService: enrollment creation, drop, and listing; enforces the
//   at-most-one-active-enrollment-per-(student, course) invariant together
//   with the paired course-counter update.
// - ExamService: precondition-gated, deterministic exam grading with
//   transactional attempt limiting.
//
// Services receive their store dependencies as interfaces at construction
// time. Methods suffixed Tx operate on the supplied transaction so a unit of
// work keeps every write inside one atomic session.

type enrollmentStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, id int64) (*models.Enrollment, error)
	GetByIDTx(ctx context.Context, tx pgx.Tx, id int64) (*models.Enrollment, error)
	GetActiveByStudentAndCourseTx(ctx context.Context, tx pgx.Tx, studentID, courseID int64) (*models.Enrollment, error)
	UpdateStatusTx(ctx context.Context, tx pgx.Tx, id int64, status models.EnrollmentStatus) error
	ListByStudent(ctx context.Context, studentID int64, status models.EnrollmentStatus, page, pageSize int) ([]models.Enrollment, int, error)
}

type courseStore interface {
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	ListPublished(ctx context.Context, category string, page, pageSize int) ([]models.Course, int, error)
	IncrementEnrollmentCountTx(ctx context.Context, tx pgx.Tx, courseID int64, delta int) error
}

type examStore interface {
	GetByID(ctx context.Context, id int64) (*models.Exam, error)
	GetWithQuestionsTx(ctx context.Context, tx pgx.Tx, id int64) (*models.Exam, error)
}

type attemptStore interface {
	CountTx(ctx context.Context, tx pgx.Tx, examID, studentID int64) (int, error)
	IncrementTx(ctx context.Context, tx pgx.Tx, examID, studentID int64) (int, error)
}
