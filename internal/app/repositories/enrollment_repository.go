package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SealGummies/online-learning-platform/internal/app/models"
	"github.com/SealGummies/online-learning-platform/internal/pkg/apperrors"
	"github.com/SealGummies/online-learning-platform/internal/pkg/dberrors"
	"github.com/SealGummies/online-learning-platform/internal/pkg/logger"
)

// activeEnrollmentConstraint is the partial unique index over
// (student_id, course_id) for non-dropped rows. The store, not the
// application, is what enforces the at-most-one-active-enrollment rule.
const activeEnrollmentConstraint = "uq_enrollments_active"

// EnrollmentRepository handles enrollment database operations
type EnrollmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateTx inserts a new enrollment inside the given transaction. A unique
// violation on the active-enrollment index maps to ErrDuplicateEnrollment
// (terminal); a store-reported write conflict maps to a transient conflict.
func (r *EnrollmentRepository) CreateTx(ctx context.Context, tx pgx.Tx, enrollment *models.Enrollment) error {
	query := `
		INSERT INTO enrollments (student_id, course_id, status, completion_pct, payment_ref, enrolled_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id`

	err := tx.QueryRow(ctx, query,
		enrollment.StudentID,
		enrollment.CourseID,
		enrollment.Status,
		enrollment.CompletionPct,
		enrollment.PaymentRef,
		enrollment.EnrolledAt,
	).Scan(&enrollment.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err, activeEnrollmentConstraint) {
			return apperrors.ErrDuplicateEnrollment
		}
		if dberrors.IsSerializationFailure(err) {
			return apperrors.NewTransientConflict("insert enrollment", err)
		}
		return fmt.Errorf("failed to insert enrollment: %w", err)
	}
	enrollment.UpdatedAt = enrollment.EnrolledAt

	return nil
}

// GetByID retrieves an enrollment by its identifier
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	query := `
		SELECT id, student_id, course_id, status, completion_pct, payment_ref,
		       certificate_id, rating, enrolled_at, updated_at
		FROM enrollments
		WHERE id = $1`

	enrollment, err := scanEnrollment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	return enrollment, nil
}

// GetByIDTx retrieves an enrollment by its identifier inside a transaction
func (r *EnrollmentRepository) GetByIDTx(ctx context.Context, tx pgx.Tx, id int64) (*models.Enrollment, error) {
	query := `
		SELECT id, student_id, course_id, status, completion_pct, payment_ref,
		       certificate_id, rating, enrolled_at, updated_at
		FROM enrollments
		WHERE id = $1`

	enrollment, err := scanEnrollment(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}

	return enrollment, nil
}

// GetActiveByStudentAndCourseTx retrieves the single non-dropped enrollment
// for a (student, course) pair inside a transaction. Returns
// ErrEnrollmentNotFound when none exists.
func (r *EnrollmentRepository) GetActiveByStudentAndCourseTx(ctx context.Context, tx pgx.Tx, studentID, courseID int64) (*models.Enrollment, error) {
	query := `
		SELECT id, student_id, course_id, status, completion_pct, payment_ref,
		       certificate_id, rating, enrolled_at, updated_at
		FROM enrollments
		WHERE student_id = $1 AND course_id = $2 AND status <> $3`

	enrollment, err := scanEnrollment(tx.QueryRow(ctx, query, studentID, courseID, models.EnrollmentStatusDropped))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to get active enrollment: %w", err)
	}

	return enrollment, nil
}

// UpdateStatusTx transitions an enrollment's status inside the given transaction
func (r *EnrollmentRepository) UpdateStatusTx(ctx context.Context, tx pgx.Tx, id int64, status models.EnrollmentStatus) error {
	tag, err := tx.Exec(ctx,
		`UPDATE enrollments SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now())
	if err != nil {
		if dberrors.IsSerializationFailure(err) {
			return apperrors.NewTransientConflict("update enrollment status", err)
		}
		return fmt.Errorf("failed to update enrollment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}

	return nil
}

// ListByStudent retrieves a student's enrollments with optional status
// filtering and pagination, newest first.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID int64, status models.EnrollmentStatus, page, pageSize int) ([]models.Enrollment, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	baseSelect := r.sb.Select(
		"e.id", "e.student_id", "e.course_id", "e.status", "e.completion_pct",
		"e.payment_ref", "e.certificate_id", "e.rating", "e.enrolled_at", "e.updated_at",
		"c.title", "c.category",
	).
		From("enrollments e").
		Join("courses c ON e.course_id = c.id")

	countSelect := r.sb.Select("COUNT(*)").From("enrollments e")

	whereCondition := squirrel.And{squirrel.Eq{"e.student_id": studentID}}
	if status != "" {
		whereCondition = append(whereCondition, squirrel.Eq{"e.status": status})
	}
	baseSelect = baseSelect.Where(whereCondition)
	countSelect = countSelect.Where(whereCondition)

	countSql, countArgs, err := countSelect.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count enrollments query: %w", err)
	}

	var totalItems int
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&totalItems); err != nil {
		logger.Error().Err(err).Msg("Error executing count enrollments query")
		return nil, 0, fmt.Errorf("failed to count enrollments: %w", err)
	}
	if totalItems == 0 {
		return []models.Enrollment{}, 0, nil
	}

	baseSelect = baseSelect.OrderBy("e.enrolled_at DESC").
		Limit(uint64(pageSize)).
		Offset(uint64((page - 1) * pageSize))

	querySql, queryArgs, err := baseSelect.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list enrollments query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySql, queryArgs...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list enrollments query")
		return nil, 0, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []models.Enrollment
	for rows.Next() {
		var e models.Enrollment
		var course models.Course
		err := rows.Scan(
			&e.ID, &e.StudentID, &e.CourseID, &e.Status, &e.CompletionPct,
			&e.PaymentRef, &e.CertificateID, &e.Rating, &e.EnrolledAt, &e.UpdatedAt,
			&course.Title, &course.Category,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan enrollment row: %w", err)
		}
		course.ID = e.CourseID
		e.Course = &course
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read enrollment rows: %w", err)
	}

	return enrollments, totalItems, nil
}

// scanEnrollment scans a single enrollment row
func scanEnrollment(row pgx.Row) (*models.Enrollment, error) {
	var e models.Enrollment
	err := row.Scan(
		&e.ID, &e.StudentID, &e.CourseID, &e.Status, &e.CompletionPct,
		&e.PaymentRef, &e.CertificateID, &e.Rating, &e.EnrolledAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
