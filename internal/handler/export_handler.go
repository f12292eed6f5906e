package handler

import (
	"context"
	"fmt"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"github.com/GTD-web/ems-backend-sub027/internal/service"
	appErrors "github.com/GTD-web/ems-backend-sub027/pkg/errors"
	"github.com/GTD-web/ems-backend-sub027/pkg/export"
	"github.com/GTD-web/ems-backend-sub027/pkg/response"
)

type summaryExporter interface {
	Export(ctx context.Context, periodID string, employeeIDs []string, format export.Format) (*service.ExportedFile, error)
}

// ExportHandler streams summary exports.
type ExportHandler struct {
	exporter summaryExporter
}

// NewExportHandler builds a new handler.
func NewExportHandler(exporter summaryExporter) *ExportHandler {
	return &ExportHandler{exporter: exporter}
}

// SummaryExport godoc
// @Summary Download a CSV extract of stage progress and scores for employees of a period
// @Tags Summary
// @Produce text/csv
// @Param periodId path string true "Evaluation period ID"
// @Param employeeId query []string true "Employee IDs" collectionFormat(multi)
// @Param format query string false "csv (default)"
// @Success 200 {file} file
// @Router /periods/{periodId}/summary-export [get]
func (h *ExportHandler) SummaryExport(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	file, err := h.exporter.Export(c.Request.Context(), c.Param("periodId"), c.QueryArray("employeeId"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(file.Name)))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
