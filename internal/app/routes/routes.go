package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/SealGummies/online-learning-platform/internal/app/controllers"
	"github.com/SealGummies/online-learning-platform/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	courseController *controllers.CourseController,
	enrollmentController *controllers.EnrollmentController,
	examController *controllers.ExamController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	authenticated.GET("/auth/me", authController.Me)

	// Catalog and exam metadata are readable by any authenticated user
	courses := authenticated.Group("/courses")
	{
		courses.GET("", courseController.ListCourses)
		courses.GET("/:id", courseController.GetCourse)
	}
	exams := authenticated.Group("/exams")
	{
		exams.GET("/:id", examController.GetExam)
	}

	// Enrollment and submission are student operations
	student := authenticated.Group("")
	student.Use(authMiddleware.RequireStudent())
	{
		student.POST("/courses/:id/enroll", enrollmentController.Enroll)
		student.GET("/enrollments", enrollmentController.ListEnrollments)
		student.GET("/enrollments/:id", enrollmentController.GetEnrollment)
		student.DELETE("/enrollments/:id", enrollmentController.Drop)
		student.POST("/exams/:id/submit", examController.SubmitExam)
	}
}
