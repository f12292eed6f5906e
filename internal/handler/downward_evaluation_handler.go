package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTD-web/ems-backend-sub027/internal/dto"
	"github.com/GTD-web/ems-backend-sub027/internal/models"
	appErrors "github.com/GTD-web/ems-backend-sub027/pkg/errors"
	"github.com/GTD-web/ems-backend-sub027/pkg/response"
)

type downwardEvaluationService interface {
	BulkSubmit(ctx context.Context, req dto.BulkDownwardRequest, actor models.Actor) (*dto.BulkSubmitResult, error)
	BulkReset(ctx context.Context, req dto.BulkDownwardRequest, actor models.Actor) (*dto.BulkResetResult, error)
	Upsert(ctx context.Context, req dto.UpsertDownwardEvaluationRequest, actor models.Actor) (*models.DownwardEvaluation, error)
	Submit(ctx context.Context, id string, actor models.Actor) (*models.DownwardEvaluation, error)
	Reset(ctx context.Context, id string, actor models.Actor) error
	Cancel(ctx context.Context, id string, actor models.Actor) error
	ListByEmployee(ctx context.Context, periodID, employeeID string, evalType models.DownwardEvaluationType) ([]models.DownwardEvaluation, error)
}

// DownwardEvaluationHandler exposes downward evaluation endpoints.
type DownwardEvaluationHandler struct {
	service downwardEvaluationService
}

// NewDownwardEvaluationHandler builds a new handler.
func NewDownwardEvaluationHandler(service downwardEvaluationService) *DownwardEvaluationHandler {
	return &DownwardEvaluationHandler{service: service}
}

func bulkRequestFromPath(c *gin.Context) (dto.BulkDownwardRequest, error) {
	force, err := queryBool(c, "force")
	if err != nil {
		return dto.BulkDownwardRequest{}, err
	}
	req := dto.BulkDownwardRequest{
		EvaluatorID:    c.Param("evaluatorId"),
		EvaluateeID:    c.Param("employeeId"),
		PeriodID:       c.Param("periodId"),
		EvaluationType: c.Param("type"),
	}
	if force != nil {
		req.ForceSubmit = *force
	}
	return req, nil
}

// BulkSubmit godoc
// @Summary Submit every downward evaluation of an evaluator for one evaluatee
// @Tags DownwardEvaluations
// @Produce json
// @Param periodId path string true "Evaluation period ID"
// @Param evaluatorId path string true "Evaluator ID"
// @Param employeeId path string true "Evaluatee ID"
// @Param type path string true "primary or secondary"
// @Param force query bool false "Provision missing records and submit incomplete ones"
// @Success 200 {object} response.Envelope
// @Router /periods/{periodId}/evaluators/{evaluatorId}/evaluatees/{employeeId}/downward/{type}/bulk-submit [post]
func (h *DownwardEvaluationHandler) BulkSubmit(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	req, err := bulkRequestFromPath(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.BulkSubmit(c.Request.Context(), req, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// BulkReset godoc
// @Summary Reset every downward evaluation of an evaluator for one evaluatee
// @Tags DownwardEvaluations
// @Produce json
// @Param periodId path string true "Evaluation period ID"
// @Param evaluatorId path string true "Evaluator ID"
// @Param employeeId path string true "Evaluatee ID"
// @Param type path string true "primary or secondary"
// @Success 200 {object} response.Envelope
// @Router /periods/{periodId}/evaluators/{evaluatorId}/evaluatees/{employeeId}/downward/{type}/bulk-reset [post]
func (h *DownwardEvaluationHandler) BulkReset(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	req, err := bulkRequestFromPath(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.BulkReset(c.Request.Context(), req, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Upsert godoc
// @Summary Save content and score of one downward evaluation
// @Tags DownwardEvaluations
// @Accept json
// @Produce json
// @Param payload body dto.UpsertDownwardEvaluationRequest true "Downward evaluation payload"
// @Success 200 {object} response.Envelope
// @Router /downward-evaluations [put]
func (h *DownwardEvaluationHandler) Upsert(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.UpsertDownwardEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid downward evaluation payload"))
		return
	}
	record, err := h.service.Upsert(c.Request.Context(), req, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, record)
}

// Submit godoc
// @Summary Submit one downward evaluation
// @Tags DownwardEvaluations
// @Produce json
// @Param id path string true "Downward evaluation ID"
// @Success 200 {object} response.Envelope
// @Router /downward-evaluations/{id}/submit [post]
func (h *DownwardEvaluationHandler) Submit(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	record, err := h.service.Submit(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, record)
}

// Reset godoc
// @Summary Reopen one downward evaluation
// @Tags DownwardEvaluations
// @Param id path string true "Downward evaluation ID"
// @Success 204
// @Router /downward-evaluations/{id}/reset [post]
func (h *DownwardEvaluationHandler) Reset(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	if err := h.service.Reset(c.Request.Context(), c.Param("id"), actor); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Cancel godoc
// @Summary Delete one downward evaluation
// @Tags DownwardEvaluations
// @Param id path string true "Downward evaluation ID"
// @Success 204
// @Router /downward-evaluations/{id} [delete]
func (h *DownwardEvaluationHandler) Cancel(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	if err := h.service.Cancel(c.Request.Context(), c.Param("id"), actor); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// List godoc
// @Summary List downward evaluations of an employee
// @Tags DownwardEvaluations
// @Produce json
// @Param periodId path string true "Evaluation period ID"
// @Param employeeId path string true "Evaluatee ID"
// @Param type query string false "primary or secondary"
// @Success 200 {object} response.Envelope
// @Router /periods/{periodId}/employees/{employeeId}/downward-evaluations [get]
func (h *DownwardEvaluationHandler) List(c *gin.Context) {
	var evalType models.DownwardEvaluationType
	if raw := c.Query("type"); raw != "" {
		parsed, err := models.ParseDownwardEvaluationType(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
			return
		}
		evalType = parsed
	}
	records, err := h.service.ListByEmployee(c.Request.Context(), c.Param("periodId"), c.Param("employeeId"), evalType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil, map[string]interface{}{"count": len(records)})
}
