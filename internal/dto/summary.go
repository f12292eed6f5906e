package dto

import "github.com/GTD-web/ems-backend-sub027/internal/models"

// StageSummary combines a stage's approval state with its computed score.
type StageSummary struct {
	Stage  models.EvaluationStage    `json:"stage"`
	Status models.StepApprovalStatus `json:"status"`
	Score  *models.StageScore        `json:"score,omitempty"`
	Grade  *string                   `json:"grade,omitempty"`
}

// EmployeeSummary is the read-time progress view of one employee in a period.
type EmployeeSummary struct {
	PeriodID   string         `json:"periodId"`
	EmployeeID string         `json:"employeeId"`
	Stages     []StageSummary `json:"stages"`
}
