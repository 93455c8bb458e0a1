package routes

import (
	"bursary-management-api/controllers"
	"bursary-management-api/middleware"
	"bursary-management-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)
			public.POST("/refresh", controllers.RefreshToken)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Bursary Management API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Fund floats and categories (funds officer only)
			floats := protected.Group("/floats")
			{
				floats.GET("", controllers.GetFloats)
				floats.GET("/:id", controllers.GetFloat)
				floats.POST("", middleware.RequireRole(models.RoleFundsOfficer), controllers.CreateFloat)
				floats.POST("/:id/close", middleware.RequireRole(models.RoleFundsOfficer), controllers.CloseFloat)
				floats.POST("/:id/categories", middleware.RequireRole(models.RoleFundsOfficer), controllers.CreateCategory)
			}
			protected.DELETE("/categories/:id", middleware.RequireRole(models.RoleFundsOfficer), controllers.DeleteCategory)
			protected.POST("/categories/:id/allocations", middleware.RequireRole(models.RoleFundsOfficer), controllers.CreateAllocation)

			// Fund allocations
			allocations := protected.Group("/allocations")
			{
				allocations.GET("", controllers.GetAllocations)
				allocations.GET("/:id", controllers.GetAllocation)
				allocations.GET("/:id/stats", controllers.GetAllocationStats)

				officer := allocations.Group("", middleware.RequireRole(models.RoleFundsOfficer))
				{
					officer.DELETE("/:id", controllers.DeleteAllocation)
					officer.POST("/:id/archive", controllers.ArchiveAllocation)
					officer.POST("/:id/activate", controllers.ActivateAllocation)
					officer.POST("/:id/suspend", controllers.SuspendAllocation)

					// Binding: single and batch. The batch either fully
					// commits or fully fails.
					officer.POST("/:id/bind", controllers.BindApplication)
					officer.POST("/:id/bind-batch", controllers.BindApplicationBatch)
				}
			}

			// Bursary applications
			applications := protected.Group("/applications")
			{
				applications.GET("", controllers.GetApplications)
				applications.GET("/:id", controllers.GetApplication)

				// Student-side lifecycle
				student := applications.Group("", middleware.RequireRole(models.RoleStudent))
				{
					student.POST("", controllers.CreateApplication)
					student.PUT("/:id", controllers.UpdateApplication)
					student.DELETE("/:id", controllers.DeleteApplication)
					student.POST("/:id/submit", controllers.SubmitApplication)
					student.POST("/:id/resubmit", controllers.ResubmitApplication)
					student.POST("/:id/withdraw", controllers.WithdrawApplication)
				}

				// Reviewer-side
				reviewer := applications.Group("", middleware.RequireRole(models.RoleReviewer))
				{
					reviewer.POST("/:id/review", controllers.ReviewApplication)
					reviewer.POST("/:id/decision", controllers.DecideApplication)
					reviewer.POST("/:id/forward", controllers.ForwardApplication)
				}

				// Officer-side refusal; the workflow table decides which
				// officer owns the edge for the current status.
				applications.POST("/:id/reject",
					middleware.RequireRole(models.RoleFundsOfficer, models.RoleDisbursementOfficer),
					controllers.RejectApplication)

				// Disbursement pipeline
				applications.POST("/:id/schedule", middleware.RequireRole(models.RoleFundsOfficer), controllers.ScheduleDisbursements)
				applications.POST("/:id/submit-disbursement", middleware.RequireRole(models.RoleFundsOfficer), controllers.SubmitForDisbursement)
				applications.GET("/:id/schedule", controllers.GetDisbursementSchedule)
			}

			// Disbursement execution (disbursement officer only)
			disbursements := protected.Group("/disbursements")
			{
				disbursements.GET("/due", middleware.RequireRole(models.RoleDisbursementOfficer, models.RoleFundsOfficer), controllers.GetDueDisbursements)
				disbursements.POST("/:entry_id/execute", middleware.RequireRole(models.RoleDisbursementOfficer), controllers.ExecuteDisbursement)
			}

			// Dashboard and reports
			dashboard := protected.Group("/dashboard")
			{
				dashboard.GET("/stats", controllers.GetDashboardStats)
				dashboard.GET("/budget-summary", controllers.GetBudgetSummary)
			}
			protected.GET("/reports/allocations.csv",
				middleware.RequireRole(models.RoleFundsOfficer, models.RoleDisbursementOfficer, models.RoleReviewer),
				controllers.ExportAllocationsCSV)

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}
		}
	}
}
