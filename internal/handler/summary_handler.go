package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/GTD-web/ems-backend-sub027/internal/dto"
	"github.com/GTD-web/ems-backend-sub027/internal/models"
	"github.com/GTD-web/ems-backend-sub027/pkg/response"
)

type summaryService interface {
	EmployeeSummary(ctx context.Context, periodID, employeeID string) (*dto.EmployeeSummary, error)
}

type activityLogService interface {
	List(ctx context.Context, filter models.ActivityLogFilter) ([]models.ActivityLogEntry, error)
}

// SummaryHandler exposes read-time progress views.
type SummaryHandler struct {
	summaries summaryService
	activity  activityLogService
}

// NewSummaryHandler builds a new handler.
func NewSummaryHandler(summaries summaryService, activity activityLogService) *SummaryHandler {
	return &SummaryHandler{summaries: summaries, activity: activity}
}

// Summary godoc
// @Summary Stage status, weighted score and grade for an employee
// @Tags Summary
// @Produce json
// @Param periodId path string true "Evaluation period ID"
// @Param employeeId path string true "Employee ID"
// @Success 200 {object} response.Envelope
// @Router /periods/{periodId}/employees/{employeeId}/summary [get]
func (h *SummaryHandler) Summary(c *gin.Context) {
	summary, err := h.summaries.EmployeeSummary(c.Request.Context(), c.Param("periodId"), c.Param("employeeId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, summary)
}

// ActivityLog godoc
// @Summary Workflow activity for an employee
// @Tags Summary
// @Produce json
// @Param periodId path string true "Evaluation period ID"
// @Param employeeId path string true "Employee ID"
// @Param type query string false "Activity type"
// @Param limit query int false "Page size (default 50)"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /periods/{periodId}/employees/{employeeId}/activity-logs [get]
func (h *SummaryHandler) ActivityLog(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		response.Error(c, err)
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		response.Error(c, err)
		return
	}
	entries, err := h.activity.List(c.Request.Context(), models.ActivityLogFilter{
		PeriodID:     c.Param("periodId"),
		EmployeeID:   c.Param("employeeId"),
		ActivityType: models.ActivityType(c.Query("type")),
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, entries)
}
