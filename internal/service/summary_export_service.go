package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/GTD-web/ems-backend-sub027/internal/dto"
	appErrors "github.com/GTD-web/ems-backend-sub027/pkg/errors"
	"github.com/GTD-web/ems-backend-sub027/pkg/export"
)

type employeeSummarizer interface {
	EmployeeSummary(ctx context.Context, periodID, employeeID string) (*dto.EmployeeSummary, error)
}

type displayNamesResolver interface {
	DisplayNames(ctx context.Context, employeeIDs []string) (map[string]string, error)
}

var summaryExportHeaders = []string{"employee_id", "employee_name", "stage", "status", "score", "grade", "completed", "matched_weight", "weights_balanced"}

// ExportedFile is a rendered summary export.
type ExportedFile struct {
	Name        string
	ContentType string
	Data        []byte
	Rows        int
}

// SummaryExportService extracts employee summaries of a period as CSV rows.
type SummaryExportService struct {
	summaries employeeSummarizer
	names     displayNamesResolver
	logger    *zap.Logger
	now       func() time.Time
}

// NewSummaryExportService constructs the service. names may be nil.
func NewSummaryExportService(summaries employeeSummarizer, names displayNamesResolver, logger *zap.Logger) *SummaryExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryExportService{summaries: summaries, names: names, logger: logger, now: time.Now}
}

// Export builds one row per employee and stage. Employee ids are deduplicated
// and kept in the order given.
func (s *SummaryExportService) Export(ctx context.Context, periodID string, employeeIDs []string, format export.Format) (*ExportedFile, error) {
	if periodID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "periodId is required")
	}
	ids := dedupe(employeeIDs)
	if len(ids) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one employeeId is required")
	}
	renderer, err := export.RendererFor(format)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	names := map[string]string{}
	if s.names != nil {
		resolved, err := s.names.DisplayNames(ctx, ids)
		if err != nil {
			s.logger.Warn("export names unresolved", zap.String("period_id", periodID), zap.Error(err))
		} else {
			names = resolved
		}
	}

	dataset := export.Dataset{Headers: summaryExportHeaders}
	for _, employeeID := range ids {
		summary, err := s.summaries.EmployeeSummary(ctx, periodID, employeeID)
		if err != nil {
			return nil, err
		}
		dataset.Rows = append(dataset.Rows, summaryRows(summary, names[employeeID])...)
	}

	data, err := renderer.Render(dataset)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render summary export")
	}
	return &ExportedFile{
		Name:        fmt.Sprintf("%s/summary-%s.%s", periodID, s.now().UTC().Format("20060102T150405Z"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Data:        data,
		Rows:        len(dataset.Rows),
	}, nil
}

func summaryRows(summary *dto.EmployeeSummary, name string) []map[string]string {
	rows := make([]map[string]string, 0, len(summary.Stages))
	for _, stage := range summary.Stages {
		row := map[string]string{
			"employee_id":   summary.EmployeeID,
			"employee_name": name,
			"stage":         string(stage.Stage),
			"status":        string(stage.Status),
		}
		if stage.Score != nil {
			row["completed"] = fmt.Sprintf("%d", stage.Score.CompletedCount)
			row["matched_weight"] = stage.Score.MatchedWeight.String()
			row["weights_balanced"] = fmt.Sprintf("%t", stage.Score.WeightsBalanced)
			if stage.Score.TotalScore != nil {
				row["score"] = stage.Score.TotalScore.StringFixed(2)
			}
		}
		if stage.Grade != nil {
			row["grade"] = *stage.Grade
		}
		rows = append(rows, row)
	}
	return rows
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
