package service

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GTD-web/ems-backend-sub027/internal/models"
	appErrors "github.com/GTD-web/ems-backend-sub027/pkg/errors"
)

// scoreDivisionPrecision is the number of fractional digits kept when a
// weighted average does not terminate. Presentation rounds to two places.
const scoreDivisionPrecision int32 = 28

var (
	integerStep = decimal.NewFromInt(1)
	fullWeight  = decimal.NewFromInt(100)
	minScore    = decimal.Zero
	maxScore    = decimal.NewFromInt(100)
)

// ScoreAggregator computes weighted stage scores and maps them to grades.
type ScoreAggregator struct {
	logger *zap.Logger
}

// NewScoreAggregator constructs the aggregator.
func NewScoreAggregator(logger *zap.Logger) *ScoreAggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScoreAggregator{logger: logger}
}

// ComputeStageScore averages completed, scored records weighted by their WBS
// assignment. Assignments without a completed record contribute nothing, so
// the result is a partial-weight average. TotalScore is nil when nothing
// completed matches an assignment.
func (a *ScoreAggregator) ComputeStageScore(stage models.EvaluationStage, records []models.ScoredRecord, assignments []models.WbsAssignment) models.StageScore {
	result := models.StageScore{
		Stage:          stage,
		MatchedWeight:  decimal.Zero,
		AssignedWeight: decimal.Zero,
	}

	weights := make(map[string]decimal.Decimal, len(assignments))
	for _, assignment := range assignments {
		if assignment.DeletedAt != nil {
			continue
		}
		result.AssignedWeight = result.AssignedWeight.Add(assignment.Weight)
		weights[assignment.WbsItemID] = weights[assignment.WbsItemID].Add(assignment.Weight)
	}
	result.WeightsBalanced = result.AssignedWeight.Equal(fullWeight)

	weighted := decimal.Zero
	for _, record := range records {
		if !record.IsCompleted || !record.Score.Valid {
			continue
		}
		result.CompletedCount++
		weight, ok := weights[record.WbsItemID]
		if !ok {
			continue
		}
		result.MatchedCount++
		result.MatchedWeight = result.MatchedWeight.Add(weight)
		weighted = weighted.Add(record.Score.Decimal.Mul(weight))
	}

	if result.CompletedCount > 0 && result.MatchedWeight.IsPositive() {
		total := weighted.DivRound(result.MatchedWeight, scoreDivisionPrecision)
		result.TotalScore = &total
	}

	if len(assignments) > 0 && !result.WeightsBalanced {
		a.logger.Warn("wbs assignment weights do not sum to 100",
			zap.String("stage", string(stage)),
			zap.String("assigned_weight", result.AssignedWeight.String()),
		)
	}
	return result
}

// MapToGrade returns the first band, in ascending MinRange order, whose
// inclusive range contains score. A fractional score between integer-stepped
// bands such as [0,59] and [60,69] falls to the lower band.
func MapToGrade(score decimal.Decimal, bands []models.GradeRange) (*models.GradeRange, bool) {
	sorted := sortedBands(bands)
	for i := range sorted {
		if score.GreaterThanOrEqual(sorted[i].MinRange) && score.LessThanOrEqual(sorted[i].MaxRange) {
			band := sorted[i]
			return &band, true
		}
		if i+1 < len(sorted) && integerStepped(sorted[i], sorted[i+1]) &&
			score.GreaterThan(sorted[i].MaxRange) && score.LessThan(sorted[i+1].MinRange) {
			band := sorted[i]
			return &band, true
		}
	}
	return nil, false
}

// integerStepped reports whether next starts one whole point after prev ends.
func integerStepped(prev, next models.GradeRange) bool {
	return prev.MaxRange.IsInteger() && next.MinRange.IsInteger() &&
		next.MinRange.Sub(prev.MaxRange).Equal(integerStep)
}

// ValidateGradeRanges checks that bands cover 0 to 100 with no gap or
// overlap. Neighbouring bands either share their boundary value, which
// MapToGrade resolves to the lower band, or step by one whole point.
func ValidateGradeRanges(bands []models.GradeRange) error {
	if len(bands) == 0 {
		return appErrors.Clone(appErrors.ErrInvalidGrades, "grade ranges are required")
	}
	sorted := sortedBands(bands)
	seen := make(map[string]struct{}, len(sorted))
	for i, band := range sorted {
		if band.Grade == "" {
			return appErrors.Clone(appErrors.ErrInvalidGrades, "grade label is required")
		}
		if _, dup := seen[band.Grade]; dup {
			return appErrors.Clone(appErrors.ErrInvalidGrades, fmt.Sprintf("duplicate grade %s", band.Grade))
		}
		seen[band.Grade] = struct{}{}
		if band.MinRange.GreaterThan(band.MaxRange) {
			return appErrors.Clone(appErrors.ErrInvalidGrades, fmt.Sprintf("grade %s has min above max", band.Grade))
		}
		if i == 0 {
			if !band.MinRange.Equal(minScore) {
				return appErrors.Clone(appErrors.ErrInvalidGrades, "grade ranges must start at 0")
			}
			continue
		}
		prev := sorted[i-1]
		switch {
		case band.MinRange.LessThan(prev.MaxRange):
			return appErrors.Clone(appErrors.ErrInvalidGrades, fmt.Sprintf("grade %s overlaps %s", band.Grade, prev.Grade))
		case band.MinRange.GreaterThan(prev.MaxRange) && !integerStepped(prev, band):
			return appErrors.Clone(appErrors.ErrInvalidGrades, fmt.Sprintf("gap between %s and %s", prev.Grade, band.Grade))
		}
	}
	if !sorted[len(sorted)-1].MaxRange.Equal(maxScore) {
		return appErrors.Clone(appErrors.ErrInvalidGrades, "grade ranges must end at 100")
	}
	return nil
}

func sortedBands(bands []models.GradeRange) []models.GradeRange {
	sorted := make([]models.GradeRange, len(bands))
	copy(sorted, bands)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinRange.LessThan(sorted[j].MinRange)
	})
	return sorted
}
