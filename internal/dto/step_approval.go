package dto

import "github.com/GTD-web/ems-backend-sub027/internal/models"

// UpdateStepApprovalRequest records a reviewer decision on a stage.
type UpdateStepApprovalRequest struct {
	PeriodID        string  `json:"periodId" validate:"required"`
	EmployeeID      string  `json:"employeeId" validate:"required"`
	Stage           string  `json:"stage" validate:"required"`
	Status          string  `json:"status" validate:"required"`
	RevisionComment string  `json:"revisionComment"`
	EvaluatorID     *string `json:"evaluatorId"`
}

// StepApprovalResponse wraps the stage state and any revision request it opened.
type StepApprovalResponse struct {
	Approval        *models.StepApproval    `json:"approval"`
	RevisionRequest *models.RevisionRequest `json:"revisionRequest,omitempty"`
}

// StepDecisionRequest is the body of a stage status change; the stage and
// employee come from the route.
type StepDecisionRequest struct {
	Status          string  `json:"status" validate:"required"`
	RevisionComment string  `json:"revisionComment"`
	EvaluatorID     *string `json:"evaluatorId"`
}
