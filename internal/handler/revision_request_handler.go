package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/GTD-web/ems-backend-sub027/internal/dto"
	"github.com/GTD-web/ems-backend-sub027/internal/models"
	"github.com/GTD-web/ems-backend-sub027/pkg/response"
)

type revisionRequestService interface {
	CreateRevisionRequest(ctx context.Context, req dto.CreateRevisionRequest, actor models.Actor) (*models.RevisionRequest, error)
	MarkRead(ctx context.Context, requestID, recipientID string, actor models.Actor) (*models.RevisionRecipient, error)
	Complete(ctx context.Context, requestID, recipientID, responseComment string, actor models.Actor) (*dto.RevisionCompletionResult, error)
	ListForRecipient(ctx context.Context, recipientID string, query dto.RevisionInboxQuery) ([]models.RecipientRevision, error)
	UnreadCount(ctx context.Context, recipientID string) (int, error)
}

// RevisionRequestHandler exposes the revision request inbox and responses.
type RevisionRequestHandler struct {
	service revisionRequestService
}

// NewRevisionRequestHandler builds a new handler.
func NewRevisionRequestHandler(service revisionRequestService) *RevisionRequestHandler {
	return &RevisionRequestHandler{service: service}
}

// Create godoc
// @Summary Request a revision from explicit recipients
// @Tags RevisionRequests
// @Accept json
// @Produce json
// @Param payload body dto.CreateRevisionRequest true "Revision request"
// @Success 201 {object} response.Envelope
// @Router /revision-requests [post]
func (h *RevisionRequestHandler) Create(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.CreateRevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid revision request payload"))
		return
	}
	request, err := h.service.CreateRevisionRequest(c.Request.Context(), req, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, request)
}

// Inbox godoc
// @Summary List revision requests addressed to the caller
// @Tags RevisionRequests
// @Produce json
// @Param periodId query string false "Evaluation period ID"
// @Param step query string false "Stage filter"
// @Param isRead query bool false "Read filter"
// @Param isCompleted query bool false "Completion filter"
// @Success 200 {object} response.Envelope
// @Router /revision-requests/me [get]
func (h *RevisionRequestHandler) Inbox(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	query := dto.RevisionInboxQuery{PeriodID: c.Query("periodId"), Step: c.Query("step")}
	var err error
	if query.IsRead, err = queryBool(c, "isRead"); err != nil {
		response.Error(c, err)
		return
	}
	if query.IsCompleted, err = queryBool(c, "isCompleted"); err != nil {
		response.Error(c, err)
		return
	}
	items, err := h.service.ListForRecipient(c.Request.Context(), actor.ID, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, items)
}

// UnreadCount godoc
// @Summary Count unread revision requests addressed to the caller
// @Tags RevisionRequests
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /revision-requests/me/unread-count [get]
func (h *RevisionRequestHandler) UnreadCount(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	count, err := h.service.UnreadCount(c.Request.Context(), actor.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.UnreadCountResponse{Count: count})
}

// MarkRead godoc
// @Summary Mark a revision request as read by the caller
// @Tags RevisionRequests
// @Produce json
// @Param id path string true "Revision request ID"
// @Success 200 {object} response.Envelope
// @Router /revision-requests/{id}/read [patch]
func (h *RevisionRequestHandler) MarkRead(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	recipient, err := h.service.MarkRead(c.Request.Context(), c.Param("id"), actor.ID, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, recipient)
}

// Complete godoc
// @Summary Respond to a revision request as the caller
// @Tags RevisionRequests
// @Accept json
// @Produce json
// @Param id path string true "Revision request ID"
// @Param payload body dto.CompleteRevisionRequest true "Response"
// @Success 200 {object} response.Envelope
// @Router /revision-requests/{id}/complete [patch]
func (h *RevisionRequestHandler) Complete(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	h.complete(c, actor.ID, actor)
}

// CompleteOnBehalf godoc
// @Summary Respond to a revision request on behalf of a recipient
// @Tags RevisionRequests
// @Accept json
// @Produce json
// @Param id path string true "Revision request ID"
// @Param recipientId path string true "Recipient ID"
// @Param payload body dto.CompleteRevisionRequest true "Response"
// @Success 200 {object} response.Envelope
// @Router /revision-requests/{id}/recipients/{recipientId}/complete [patch]
func (h *RevisionRequestHandler) CompleteOnBehalf(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	h.complete(c, c.Param("recipientId"), actor)
}

func (h *RevisionRequestHandler) complete(c *gin.Context, recipientID string, actor models.Actor) {
	var req dto.CompleteRevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid revision response payload"))
		return
	}
	result, err := h.service.Complete(c.Request.Context(), c.Param("id"), recipientID, req.ResponseComment, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
