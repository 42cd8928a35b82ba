package services

import (
	"context"

	"github.com/SealGummies/online-learning-platform/internal/app/models"
	"github.com/SealGummies/online-learning-platform/internal/pkg/apperrors"
)

// CourseService defines the interface for course catalog operations
type CourseService interface {
	GetCourse(ctx context.Context, courseID int64) (*models.Course, error)
	ListCourses(ctx context.Context, category string, page, pageSize int) ([]models.Course, int, error)
}

// courseServiceImpl implements CourseService
type courseServiceImpl struct {
	courses courseStore
}

// NewCourseService creates a new CourseService
func NewCourseService(courses courseStore) CourseService {
	return &courseServiceImpl{courses: courses}
}

// GetCourse retrieves a published course's catalog entry
func (s *courseServiceImpl) GetCourse(ctx context.Context, courseID int64) (*models.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.Published {
		return nil, apperrors.ErrCourseNotFound
	}
	return course, nil
}

// ListCourses retrieves published courses with optional category filtering
// and pagination.
func (s *courseServiceImpl) ListCourses(ctx context.Context, category string, page, pageSize int) ([]models.Course, int, error) {
	return s.courses.ListPublished(ctx, category, page, pageSize)
}
