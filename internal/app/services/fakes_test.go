package services

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/SealGummies/online-learning-platform/internal/app/models"
	"github.com/SealGummies/online-learning-platform/internal/db"
	"github.com/SealGummies/online-learning-platform/internal/pkg/apperrors"
)

// stubTransactor runs units of work without a database session. Its retry
// behavior mirrors db.RetryPolicy: transient errors retry immediately,
// everything else is terminal.
type stubTransactor struct{}

func (stubTransactor) RunInTx(ctx context.Context, fn db.TxFn) error {
	return fn(ctx, nil)
}

func (s stubTransactor) RunSequence(ctx context.Context, fns ...db.TxFn) error {
	for _, fn := range fns {
		if err := fn(ctx, nil); err != nil {
			return err
		}
	}
	return nil
}

func (s stubTransactor) RunWithRetry(ctx context.Context, maxAttempts int, fn db.TxFn) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = fn(ctx, nil); err == nil || !apperrors.IsTransient(err) {
			return err
		}
	}
	return err
}

// fakeEnrollmentStore keeps enrollments in a mutex-guarded map and enforces
// the same at-most-one-active-per-(student, course) rule the real store's
// partial unique index does.
type fakeEnrollmentStore struct {
	mu          sync.Mutex
	nextID      int64
	rows        map[int64]*models.Enrollment
	createErrs  []error
	createCalls int
	updateCalls int
}

func newFakeEnrollmentStore() *fakeEnrollmentStore {
	return &fakeEnrollmentStore{rows: map[int64]*models.Enrollment{}}
}

func (f *fakeEnrollmentStore) put(e *models.Enrollment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.ID > f.nextID {
		f.nextID = e.ID
	}
	cp := *e
	f.rows[cp.ID] = &cp
}

func (f *fakeEnrollmentStore) CreateTx(ctx context.Context, tx pgx.Tx, e *models.Enrollment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return err
		}
	}
	for _, row := range f.rows {
		if row.StudentID == e.StudentID && row.CourseID == e.CourseID && row.Status.Active() {
			return apperrors.ErrDuplicateEnrollment
		}
	}
	f.nextID++
	e.ID = f.nextID
	cp := *e
	f.rows[cp.ID] = &cp
	return nil
}

func (f *fakeEnrollmentStore) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrEnrollmentNotFound
	}
	cp := *row
	return &cp, nil
}

func (f *fakeEnrollmentStore) GetByIDTx(ctx context.Context, tx pgx.Tx, id int64) (*models.Enrollment, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeEnrollmentStore) GetActiveByStudentAndCourseTx(ctx context.Context, tx pgx.Tx, studentID, courseID int64) (*models.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.StudentID == studentID && row.CourseID == courseID && row.Status != models.EnrollmentStatusDropped {
			cp := *row
			return &cp, nil
		}
	}
	return nil, apperrors.ErrEnrollmentNotFound
}

func (f *fakeEnrollmentStore) UpdateStatusTx(ctx context.Context, tx pgx.Tx, id int64, status models.EnrollmentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	row, ok := f.rows[id]
	if !ok {
		return apperrors.ErrEnrollmentNotFound
	}
	row.Status = status
	return nil
}

func (f *fakeEnrollmentStore) ListByStudent(ctx context.Context, studentID int64, status models.EnrollmentStatus, page, pageSize int) ([]models.Enrollment, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Enrollment{}
	for _, row := range f.rows {
		if row.StudentID != studentID {
			continue
		}
		if status != "" && row.Status != status {
			continue
		}
		out = append(out, *row)
	}
	return out, len(out), nil
}

func (f *fakeEnrollmentStore) activeCount(studentID, courseID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, row := range f.rows {
		if row.StudentID == studentID && row.CourseID == courseID && row.Status.Active() {
			n++
		}
	}
	return n
}

type fakeCourseStore struct {
	mu             sync.Mutex
	courses        map[int64]*models.Course
	incrementErrs  []error
	incrementCalls int
}

func newFakeCourseStore(courses ...*models.Course) *fakeCourseStore {
	f := &fakeCourseStore{courses: map[int64]*models.Course{}}
	for _, c := range courses {
		cp := *c
		f.courses[cp.ID] = &cp
	}
	return f
}

func (f *fakeCourseStore) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCourseStore) ListPublished(ctx context.Context, category string, page, pageSize int) ([]models.Course, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	matched := []models.Course{}
	for _, c := range f.courses {
		if !c.Published {
			continue
		}
		if category != "" && c.Category != category {
			continue
		}
		matched = append(matched, *c)
	}
	total := len(matched)
	start := (page - 1) * pageSize
	if start >= total {
		return []models.Course{}, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (f *fakeCourseStore) IncrementEnrollmentCountTx(ctx context.Context, tx pgx.Tx, courseID int64, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.incrementCalls++
	if len(f.incrementErrs) > 0 {
		err := f.incrementErrs[0]
		f.incrementErrs = f.incrementErrs[1:]
		if err != nil {
			return err
		}
	}
	c, ok := f.courses[courseID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	c.EnrollmentCount += delta
	return nil
}

func (f *fakeCourseStore) enrollmentCount(courseID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.courses[courseID].EnrollmentCount
}

type fakeExamStore struct {
	mu    sync.Mutex
	exams map[int64]*models.Exam
}

func newFakeExamStore(exams ...*models.Exam) *fakeExamStore {
	f := &fakeExamStore{exams: map[int64]*models.Exam{}}
	for _, e := range exams {
		cp := *e
		f.exams[cp.ID] = &cp
	}
	return f
}

func (f *fakeExamStore) GetByID(ctx context.Context, id int64) (*models.Exam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.exams[id]
	if !ok {
		return nil, apperrors.ErrExamNotFound
	}
	cp := *e
	cp.Questions = nil
	return &cp, nil
}

func (f *fakeExamStore) GetWithQuestionsTx(ctx context.Context, tx pgx.Tx, id int64) (*models.Exam, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.exams[id]
	if !ok {
		return nil, apperrors.ErrExamNotFound
	}
	cp := *e
	return &cp, nil
}

type fakeAttemptStore struct {
	mu             sync.Mutex
	counts         map[[2]int64]int
	incrementCalls int
}

func newFakeAttemptStore() *fakeAttemptStore {
	return &fakeAttemptStore{counts: map[[2]int64]int{}}
}

func (f *fakeAttemptStore) CountTx(ctx context.Context, tx pgx.Tx, examID, studentID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[[2]int64{examID, studentID}], nil
}

func (f *fakeAttemptStore) IncrementTx(ctx context.Context, tx pgx.Tx, examID, studentID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.incrementCalls++
	key := [2]int64{examID, studentID}
	f.counts[key]++
	return f.counts[key], nil
}
