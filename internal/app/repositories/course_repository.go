package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SealGummies/online-learning-platform/internal/app/models"
	"github.com/SealGummies/online-learning-platform/internal/pkg/apperrors"
	"github.com/SealGummies/online-learning-platform/internal/pkg/dberrors"
)

// CourseRepository handles course database operations
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByID retrieves a course by its identifier
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	query := `
		SELECT id, instructor_id, title, description, category, price_cents,
		       published, enrollment_count, created_at, updated_at
		FROM courses
		WHERE id = $1`

	var course models.Course
	err := r.db.QueryRow(ctx, query, id).Scan(
		&course.ID, &course.InstructorID, &course.Title, &course.Description,
		&course.Category, &course.PriceCents, &course.Published,
		&course.EnrollmentCount, &course.CreatedAt, &course.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	return &course, nil
}

// IncrementEnrollmentCountTx adjusts the denormalized enrollment counter by
// delta inside the given transaction. Callers must pair it with the
// corresponding enrollment write in the same transaction; the counter is
// never mutated independently.
func (r *CourseRepository) IncrementEnrollmentCountTx(ctx context.Context, tx pgx.Tx, courseID int64, delta int) error {
	tag, err := tx.Exec(ctx,
		`UPDATE courses SET enrollment_count = enrollment_count + $2, updated_at = NOW() WHERE id = $1`,
		courseID, delta)
	if err != nil {
		if dberrors.IsSerializationFailure(err) {
			return apperrors.NewTransientConflict("increment enrollment count", err)
		}
		return fmt.Errorf("failed to update enrollment count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// ListPublished retrieves published courses with optional category filtering
// and pagination.
func (r *CourseRepository) ListPublished(ctx context.Context, category string, page, pageSize int) ([]models.Course, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	baseSelect := r.sb.Select(
		"id", "instructor_id", "title", "description", "category", "price_cents",
		"published", "enrollment_count", "created_at", "updated_at",
	).From("courses")
	countSelect := r.sb.Select("COUNT(*)").From("courses")

	whereCondition := squirrel.And{squirrel.Eq{"published": true}}
	if category != "" {
		whereCondition = append(whereCondition, squirrel.Eq{"category": category})
	}
	baseSelect = baseSelect.Where(whereCondition)
	countSelect = countSelect.Where(whereCondition)

	countSql, countArgs, err := countSelect.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count courses query: %w", err)
	}

	var totalItems int
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&totalItems); err != nil {
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}
	if totalItems == 0 {
		return []models.Course{}, 0, nil
	}

	baseSelect = baseSelect.OrderBy("created_at DESC").
		Limit(uint64(pageSize)).
		Offset(uint64((page - 1) * pageSize))

	querySql, queryArgs, err := baseSelect.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, querySql, queryArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var course models.Course
		err := rows.Scan(
			&course.ID, &course.InstructorID, &course.Title, &course.Description,
			&course.Category, &course.PriceCents, &course.Published,
			&course.EnrollmentCount, &course.CreatedAt, &course.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan course row: %w", err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read course rows: %w", err)
	}

	return courses, totalItems, nil
}
