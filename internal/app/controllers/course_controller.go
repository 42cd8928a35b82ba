package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SealGummies/online-learning-platform/internal/app/models/dto"
	"github.com/SealGummies/online-learning-platform/internal/app/services"
	"github.com/SealGummies/online-learning-platform/internal/middleware"
)

// CourseController handles course catalog operations
type CourseController struct {
	courseService services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService) *CourseController {
	return &CourseController{courseService: courseService}
}

// GetCourse retrieves a published course's catalog entry
func (c *CourseController) GetCourse(ctx *gin.Context) {
	courseID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course ID").WithField("id")))
		return
	}

	course, err := c.courseService.GetCourse(ctx, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewCourseResponse(course),
		Timestamp: time.Now(),
	})
}

// ListCourses lists the published course catalog
func (c *CourseController) ListCourses(ctx *gin.Context) {
	page, pageSize := paginationParams(ctx)
	category := ctx.Query("category")

	courses, total, err := c.courseService.ListCourses(ctx, category, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		responses = append(responses, dto.NewCourseResponse(&courses[i]))
	}

	totalPages := (total + pageSize - 1) / pageSize
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.CourseListResponse{
			Courses: responses,
			PaginationInfo: dto.PaginationInfo{
				CurrentPage: page,
				PageSize:    pageSize,
				TotalItems:  total,
				TotalPages:  totalPages,
			},
		},
		Timestamp: time.Now(),
	})
}
