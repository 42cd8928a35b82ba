package services

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SealGummies/online-learning-platform/internal/app/models"
	"github.com/SealGummies/online-learning-platform/internal/pkg/apperrors"
)

var examTestNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

type examFixture struct {
	svc         ExamService
	exams       *fakeExamStore
	enrollments *fakeEnrollmentStore
	attempts    *fakeAttemptStore
}

func newExamFixture() *examFixture {
	open := examTestNow.Add(-time.Hour)
	closed := examTestNow.Add(time.Hour)
	notYet := examTestNow.Add(time.Hour)
	past := examTestNow.Add(-time.Minute)

	exams := newFakeExamStore(
		&models.Exam{
			ID: 10, CourseID: 1, Title: "Go Basics Quiz", Published: true, MaxAttempts: 3,
			StartDate: &open, EndDate: &closed,
			Questions: []models.Question{
				{ID: 1, Position: 1, CorrectAnswer: "a", Points: 10},
				{ID: 2, Position: 2, CorrectAnswer: "b", Points: 5},
			},
		},
		&models.Exam{ID: 11, CourseID: 1, Title: "Draft Quiz", Published: false},
		&models.Exam{ID: 12, CourseID: 1, Title: "Future Quiz", Published: true, StartDate: &notYet},
		&models.Exam{ID: 13, CourseID: 1, Title: "Closed Quiz", Published: true, EndDate: &past},
		&models.Exam{
			ID: 14, CourseID: 1, Title: "Practice Quiz", Published: true, MaxAttempts: 0,
			Questions: []models.Question{{ID: 3, Position: 1, CorrectAnswer: "c", Points: 1}},
		},
	)

	enrollments := newFakeEnrollmentStore()
	enrollments.put(&models.Enrollment{ID: 1, StudentID: 7, CourseID: 1, Status: models.EnrollmentStatusEnrolled})

	attempts := newFakeAttemptStore()
	svc := NewExamService(stubTransactor{}, exams, enrollments, attempts)
	svc.(*examServiceImpl).now = func() time.Time { return examTestNow }

	return &examFixture{svc: svc, exams: exams, enrollments: enrollments, attempts: attempts}
}

func TestSubmitGradesAnswers(t *testing.T) {
	f := newExamFixture()

	result, err := f.svc.Submit(context.Background(), 10, 7, map[int64]string{1: "a", 2: "wrong"})

	require.NoError(t, err)
	assert.Equal(t, int64(10), result.ExamID)
	assert.Equal(t, int64(7), result.StudentID)
	assert.Equal(t, 10, result.Score)
	assert.Equal(t, 15, result.TotalPoints)
	assert.Equal(t, 67, result.Percentage)
	assert.Equal(t, examTestNow, result.SubmittedAt)
	require.Len(t, result.Breakdown, 2)
}

func TestSubmitNilAnswersGradesAsEmpty(t *testing.T) {
	f := newExamFixture()

	result, err := f.svc.Submit(context.Background(), 10, 7, nil)

	require.NoError(t, err)
	assert.Equal(t, 0, result.Score)
	assert.Len(t, result.Breakdown, 2)
}

func TestSubmitRequiresActiveEnrollment(t *testing.T) {
	f := newExamFixture()

	_, err := f.svc.Submit(context.Background(), 10, 8, map[int64]string{1: "a"})

	assert.ErrorIs(t, err, apperrors.ErrNotEnrolled)
	count, _ := f.attempts.CountTx(context.Background(), nil, 10, 8)
	assert.Zero(t, count, "failed precondition must not consume an attempt")
}

func TestSubmitDroppedEnrollmentIsNotEnrolled(t *testing.T) {
	f := newExamFixture()
	f.enrollments.put(&models.Enrollment{ID: 2, StudentID: 9, CourseID: 1, Status: models.EnrollmentStatusDropped})

	_, err := f.svc.Submit(context.Background(), 10, 9, map[int64]string{1: "a"})

	assert.ErrorIs(t, err, apperrors.ErrNotEnrolled)
}

func TestSubmitUnpublishedExam(t *testing.T) {
	f := newExamFixture()

	_, err := f.svc.Submit(context.Background(), 11, 7, map[int64]string{})

	assert.ErrorIs(t, err, apperrors.ErrExamUnavailable)
}

func TestSubmitBeforeWindowOpens(t *testing.T) {
	f := newExamFixture()

	_, err := f.svc.Submit(context.Background(), 12, 7, map[int64]string{})

	assert.ErrorIs(t, err, apperrors.ErrExamNotOpen)
}

func TestSubmitAfterWindowCloses(t *testing.T) {
	f := newExamFixture()

	_, err := f.svc.Submit(context.Background(), 13, 7, map[int64]string{})

	assert.ErrorIs(t, err, apperrors.ErrExamExpired)
}

func TestSubmitUnknownExam(t *testing.T) {
	f := newExamFixture()

	_, err := f.svc.Submit(context.Background(), 999, 7, map[int64]string{})

	assert.ErrorIs(t, err, apperrors.ErrExamNotFound)
}

func TestSubmitEnforcesAttemptLimit(t *testing.T) {
	f := newExamFixture()

	for i := 0; i < 3; i++ {
		_, err := f.svc.Submit(context.Background(), 10, 7, map[int64]string{1: "a"})
		require.NoError(t, err)
	}

	_, err := f.svc.Submit(context.Background(), 10, 7, map[int64]string{1: "a"})

	assert.ErrorIs(t, err, apperrors.ErrAttemptLimitExceeded)
	count, _ := f.attempts.CountTx(context.Background(), nil, 10, 7)
	assert.Equal(t, 3, count, "rejected submission must not consume an attempt")
}

// staleCountAttemptStore reports a committed attempt count of zero to every
// reader while the increment stays atomic, the way two overlapped
// transactions each see the pre-increment state when no counter row exists
// yet for FOR UPDATE to lock.
type staleCountAttemptStore struct {
	*fakeAttemptStore
}

func (s staleCountAttemptStore) CountTx(ctx context.Context, tx pgx.Tx, examID, studentID int64) (int, error) {
	return 0, nil
}

func TestSubmitOverlappedFirstSubmissionsCannotBothPassLimit(t *testing.T) {
	exams := newFakeExamStore(&models.Exam{
		ID: 20, CourseID: 1, Title: "Final Exam", Published: true, MaxAttempts: 1,
		Questions: []models.Question{{ID: 5, Position: 1, CorrectAnswer: "a", Points: 10}},
	})
	enrollments := newFakeEnrollmentStore()
	enrollments.put(&models.Enrollment{ID: 1, StudentID: 7, CourseID: 1, Status: models.EnrollmentStatusEnrolled})
	attempts := staleCountAttemptStore{newFakeAttemptStore()}
	svc := NewExamService(stubTransactor{}, exams, enrollments, attempts)
	svc.(*examServiceImpl).now = func() time.Time { return examTestNow }

	_, first := svc.Submit(context.Background(), 20, 7, map[int64]string{5: "a"})
	_, second := svc.Submit(context.Background(), 20, 7, map[int64]string{5: "a"})

	require.NoError(t, first)
	assert.ErrorIs(t, second, apperrors.ErrAttemptLimitExceeded,
		"the incremented total must gate the submission when the read count is stale")
}

func TestSubmitUnlimitedAttemptsSkipsCounter(t *testing.T) {
	f := newExamFixture()

	for i := 0; i < 5; i++ {
		_, err := f.svc.Submit(context.Background(), 14, 7, map[int64]string{3: "c"})
		require.NoError(t, err)
	}

	assert.Zero(t, f.attempts.incrementCalls, "unlimited exams never touch the attempt counter")
}

func TestSubmitMarksEnrollmentInProgressOnce(t *testing.T) {
	f := newExamFixture()

	_, err := f.svc.Submit(context.Background(), 10, 7, map[int64]string{1: "a"})
	require.NoError(t, err)

	enrollment, err := f.enrollments.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusInProgress, enrollment.Status)
	updatesAfterFirst := f.enrollments.updateCalls

	_, err = f.svc.Submit(context.Background(), 10, 7, map[int64]string{1: "a"})
	require.NoError(t, err)

	assert.Equal(t, updatesAfterFirst, f.enrollments.updateCalls, "transition fires only on the first submission")
}

func TestSubmitRejectsInvalidIdentifiers(t *testing.T) {
	f := newExamFixture()

	_, err := f.svc.Submit(context.Background(), 0, 7, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.svc.Submit(context.Background(), 10, 0, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestGetExam(t *testing.T) {
	f := newExamFixture()

	exam, err := f.svc.GetExam(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "Go Basics Quiz", exam.Title)

	_, err = f.svc.GetExam(context.Background(), 11)
	assert.ErrorIs(t, err, apperrors.ErrExamUnavailable)

	_, err = f.svc.GetExam(context.Background(), 999)
	assert.ErrorIs(t, err, apperrors.ErrExamNotFound)
}
