package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SealGummies/online-learning-platform/internal/app/models"
	"github.com/SealGummies/online-learning-platform/internal/app/models/dto"
	"github.com/SealGummies/online-learning-platform/internal/app/services"
	"github.com/SealGummies/online-learning-platform/internal/middleware"
)

// EnrollmentController handles enrollment-related operations
type EnrollmentController struct {
	enrollmentService services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{enrollmentService: enrollmentService}
}

// Enroll enrolls the authenticated student in a course
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	courseID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid course ID").WithField("id")))
		return
	}

	var req dto.EnrollRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid enrollment data").WithDetails(err.Error())))
			return
		}
	}

	studentID := middleware.UserIDFromContext(ctx)
	enrollment, err := c.enrollmentService.Enroll(ctx, studentID, courseID, req.Payment)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.NewEnrollmentResponse(enrollment),
		Timestamp: time.Now(),
	})
}

// Drop drops one of the authenticated student's enrollments
func (c *EnrollmentController) Drop(ctx *gin.Context) {
	enrollmentID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid enrollment ID").WithField("id")))
		return
	}

	studentID := middleware.UserIDFromContext(ctx)
	if err := c.enrollmentService.Drop(ctx, studentID, enrollmentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Timestamp: time.Now()})
}

// GetEnrollment retrieves one of the authenticated student's enrollments
func (c *EnrollmentController) GetEnrollment(ctx *gin.Context) {
	enrollmentID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid enrollment ID").WithField("id")))
		return
	}

	studentID := middleware.UserIDFromContext(ctx)
	enrollment, err := c.enrollmentService.GetEnrollment(ctx, studentID, enrollmentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewEnrollmentResponse(enrollment),
		Timestamp: time.Now(),
	})
}

// ListEnrollments lists the authenticated student's enrollments
func (c *EnrollmentController) ListEnrollments(ctx *gin.Context) {
	page, pageSize := paginationParams(ctx)
	status := models.EnrollmentStatus(ctx.Query("status"))

	studentID := middleware.UserIDFromContext(ctx)
	enrollments, total, err := c.enrollmentService.ListStudentEnrollments(ctx, studentID, status, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]dto.EnrollmentResponse, 0, len(enrollments))
	for i := range enrollments {
		responses = append(responses, dto.NewEnrollmentResponse(&enrollments[i]))
	}

	totalPages := (total + pageSize - 1) / pageSize
	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.EnrollmentListResponse{
			Enrollments: responses,
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
