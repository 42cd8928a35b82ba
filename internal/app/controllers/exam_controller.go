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

// ExamController handles exam-related operations
type ExamController struct {
	examService services.ExamService
}

// NewExamController creates a new ExamController
func NewExamController(examService services.ExamService) *ExamController {
	return &ExamController{examService: examService}
}

// GetExam retrieves a published exam's metadata
func (c *ExamController) GetExam(ctx *gin.Context) {
	examID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid exam ID").WithField("id")))
		return
	}

	exam, err := c.examService.GetExam(ctx, examID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewExamResponse(exam),
		Timestamp: time.Now(),
	})
}

// SubmitExam grades the authenticated student's answer set
func (c *ExamController) SubmitExam(ctx *gin.Context) {
	examID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid exam ID").WithField("id")))
		return
	}

	var req dto.SubmitExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid submission data").WithDetails(err.Error())))
		return
	}

	studentID := middleware.UserIDFromContext(ctx)
	result, err := c.examService.Submit(ctx, examID, studentID, req.Answers)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.NewExamResultResponse(result),
		Timestamp: time.Now(),
	})
}
