package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/SealGummies/online-learning-platform/internal/app/models"
	"github.com/SealGummies/online-learning-platform/internal/pkg/auth"
)

// CreateDefaultData seeds a demo instructor, student, course, and exam for
// development environments. Everything is idempotent; reruns are no-ops.
func CreateDefaultData(dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	lgr.Info().Msg("Checking/Creating default data...")

	instructorID, err := seedUser(ctx, dbPool, "instructor@example.com", "Ada", "Moreno", models.RoleInstructor)
	if err != nil {
		return err
	}
	if _, err := seedUser(ctx, dbPool, "student@example.com", "Sam", "Okafor", models.RoleStudent); err != nil {
		return err
	}

	var courseID int64
	err = dbPool.QueryRow(ctx,
		`SELECT id FROM courses WHERE title = 'Introduction to Go' AND instructor_id = $1`,
		instructorID).Scan(&courseID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = dbPool.QueryRow(ctx, `
			INSERT INTO courses (instructor_id, title, description, category, price_cents, published)
			VALUES ($1, 'Introduction to Go', 'A first course on the Go programming language.', 'programming', 0, TRUE)
			RETURNING id`, instructorID).Scan(&courseID)
	}
	if err != nil {
		return fmt.Errorf("failed to seed demo course: %w", err)
	}

	var examCount int
	if err := dbPool.QueryRow(ctx, `SELECT COUNT(*) FROM exams WHERE course_id = $1`, courseID).Scan(&examCount); err != nil {
		return fmt.Errorf("failed to check demo exam: %w", err)
	}
	if examCount == 0 {
		var examID int64
		err := dbPool.QueryRow(ctx, `
			INSERT INTO exams (course_id, title, published, max_attempts)
			VALUES ($1, 'Go Basics Quiz', TRUE, 3)
			RETURNING id`, courseID).Scan(&examID)
		if err != nil {
			return fmt.Errorf("failed to seed demo exam: %w", err)
		}

		questions := []struct {
			prompt  string
			options []string
			correct string
			points  int
		}{
			{"Which keyword declares a variable with inferred type?", []string{"var", ":=", "let", "def"}, ":=", 10},
			{"Which builtin starts a new goroutine?", []string{"go", "spawn", "async", "run"}, "go", 5},
		}
		for i, q := range questions {
			_, err := dbPool.Exec(ctx, `
				INSERT INTO exam_questions (exam_id, position, prompt, options, correct_answer, points)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				examID, i+1, q.prompt, q.options, q.correct, q.points)
			if err != nil {
				return fmt.Errorf("failed to seed demo exam question: %w", err)
			}
		}
		lgr.Info().Int64("examId", examID).Msg("Demo exam created")
	}

	return nil
}

// seedUser inserts a user if the email is not taken and returns its id.
func seedUser(ctx context.Context, dbPool *pgxpool.Pool, email, firstName, lastName string, role models.RoleType) (int64, error) {
	hashed, err := auth.HashPassword("changeme123")
	if err != nil {
		return 0, fmt.Errorf("failed to hash seed password: %w", err)
	}

	var id int64
	err = dbPool.QueryRow(ctx, `
		INSERT INTO users (email, password, first_name, last_name, role_type)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET updated_at = NOW()
		RETURNING id`,
		email, hashed, firstName, lastName, role).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to seed user %s: %w", email, err)
	}

	return id, nil
}
