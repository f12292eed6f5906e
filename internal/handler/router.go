package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/GTD-web/ems-backend-sub027/internal/middleware"
	"github.com/GTD-web/ems-backend-sub027/internal/models"
)

// Handlers groups the route handlers mounted under the API prefix.
type Handlers struct {
	Downward  *DownwardEvaluationHandler
	Approvals *StepApprovalHandler
	Revisions *RevisionRequestHandler
	Summary   *SummaryHandler
	Exports   *ExportHandler
}

// RegisterRoutes mounts the evaluation API on group. auth must authenticate the
// caller and store the actor; routes then apply role checks.
func RegisterRoutes(group *gin.RouterGroup, auth gin.HandlerFunc, h Handlers) {
	api := group.Group("", auth)
	reviewers := middleware.RequireRoles(models.RoleEvaluator)
	employeeOrReviewer := middleware.RBAC(string(models.RoleEvaluator), "SELF")

	periods := api.Group("/periods/:periodId")
	{
		bulk := periods.Group("/evaluators/:evaluatorId/evaluatees/:employeeId/downward/:type", reviewers)
		bulk.POST("/bulk-submit", h.Downward.BulkSubmit)
		bulk.POST("/bulk-reset", h.Downward.BulkReset)

		if h.Exports != nil {
			periods.GET("/summary-export", reviewers, h.Exports.SummaryExport)
		}

		employee := periods.Group("/employees/:employeeId")
		employee.GET("/downward-evaluations", employeeOrReviewer, h.Downward.List)
		employee.GET("/step-approvals", employeeOrReviewer, h.Approvals.List)
		employee.PATCH("/step-approvals/:stage", reviewers, h.Approvals.Update)
		employee.GET("/summary", employeeOrReviewer, h.Summary.Summary)
		employee.GET("/activity-logs", employeeOrReviewer, h.Summary.ActivityLog)
	}

	downward := api.Group("/downward-evaluations", reviewers)
	{
		downward.PUT("", h.Downward.Upsert)
		downward.POST("/:id/submit", h.Downward.Submit)
		downward.POST("/:id/reset", h.Downward.Reset)
		downward.DELETE("/:id", h.Downward.Cancel)
	}

	revisions := api.Group("/revision-requests")
	{
		revisions.POST("", reviewers, h.Revisions.Create)
		revisions.GET("/me", h.Revisions.Inbox)
		revisions.GET("/me/unread-count", h.Revisions.UnreadCount)
		revisions.PATCH("/:id/read", h.Revisions.MarkRead)
		revisions.PATCH("/:id/complete", h.Revisions.Complete)
		revisions.PATCH("/:id/recipients/:recipientId/complete", middleware.RequireRoles(), h.Revisions.CompleteOnBehalf)
	}
}
