package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SealGummies/online-learning-platform/internal/app/models"
	"github.com/SealGummies/online-learning-platform/internal/pkg/apperrors"
)

// ExamRepository handles exam database operations
type ExamRepository struct {
	db *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository
func NewExamRepository(db *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{db: db}
}

// GetByID retrieves an exam without its questions
func (r *ExamRepository) GetByID(ctx context.Context, id int64) (*models.Exam, error) {
	exam, err := scanExam(r.db.QueryRow(ctx, examSelectQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}
	return exam, nil
}

// GetWithQuestionsTx retrieves an exam and its questions, in exam order,
// inside the given transaction.
func (r *ExamRepository) GetWithQuestionsTx(ctx context.Context, tx pgx.Tx, id int64) (*models.Exam, error) {
	exam, err := scanExam(tx.QueryRow(ctx, examSelectQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrExamNotFound
		}
		return nil, fmt.Errorf("failed to get exam: %w", err)
	}

	rows, err := tx.Query(ctx, `
		SELECT id, exam_id, position, prompt, options, correct_answer, points
		FROM exam_questions
		WHERE exam_id = $1
		ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query exam questions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var q models.Question
		err := rows.Scan(&q.ID, &q.ExamID, &q.Position, &q.Prompt, &q.Options, &q.CorrectAnswer, &q.Points)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exam question row: %w", err)
		}
		exam.Questions = append(exam.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read exam question rows: %w", err)
	}

	return exam, nil
}

const examSelectQuery = `
	SELECT id, course_id, title, published, start_date, end_date, max_attempts, created_at, updated_at
	FROM exams
	WHERE id = $1`

// scanExam scans a single exam row
func scanExam(row pgx.Row) (*models.Exam, error) {
	var exam models.Exam
	err := row.Scan(
		&exam.ID, &exam.CourseID, &exam.Title, &exam.Published,
		&exam.StartDate, &exam.EndDate, &exam.MaxAttempts,
		&exam.CreatedAt, &exam.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &exam, nil
}
