package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/GTD-web/ems-backend-sub027/internal/dto"
	"github.com/GTD-web/ems-backend-sub027/internal/models"
	"github.com/GTD-web/ems-backend-sub027/pkg/response"
)

type stepApprovalService interface {
	UpdateStatus(ctx context.Context, req dto.UpdateStepApprovalRequest, actor models.Actor) (*dto.StepApprovalResponse, error)
	ListByEmployee(ctx context.Context, periodID, employeeID string) ([]models.StepApproval, error)
}

// StepApprovalHandler exposes stage review endpoints.
type StepApprovalHandler struct {
	service stepApprovalService
}

// NewStepApprovalHandler builds a new handler.
func NewStepApprovalHandler(service stepApprovalService) *StepApprovalHandler {
	return &StepApprovalHandler{service: service}
}

// Update godoc
// @Summary Change the review status of a stage
// @Description Requesting a revision requires revisionComment and opens a revision request for the stage's recipients.
// @Tags StepApprovals
// @Accept json
// @Produce json
// @Param periodId path string true "Evaluation period ID"
// @Param employeeId path string true "Evaluatee ID"
// @Param stage path string true "criteria, self, primary or secondary"
// @Param payload body dto.StepDecisionRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Router /periods/{periodId}/employees/{employeeId}/step-approvals/{stage} [patch]
func (h *StepApprovalHandler) Update(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var body dto.StepDecisionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, bindError(err, "invalid step approval payload"))
		return
	}
	result, err := h.service.UpdateStatus(c.Request.Context(), dto.UpdateStepApprovalRequest{
		PeriodID:        c.Param("periodId"),
		EmployeeID:      c.Param("employeeId"),
		Stage:           c.Param("stage"),
		Status:          body.Status,
		RevisionComment: body.RevisionComment,
		EvaluatorID:     body.EvaluatorID,
	}, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// List godoc
// @Summary List the review status of every stage
// @Tags StepApprovals
// @Produce json
// @Param periodId path string true "Evaluation period ID"
// @Param employeeId path string true "Evaluatee ID"
// @Success 200 {object} response.Envelope
// @Router /periods/{periodId}/employees/{employeeId}/step-approvals [get]
func (h *StepApprovalHandler) List(c *gin.Context) {
	approvals, err := h.service.ListByEmployee(c.Request.Context(), c.Param("periodId"), c.Param("employeeId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, approvals)
}
