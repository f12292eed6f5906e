package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/GTD-web/ems-backend-sub027/pkg/errors"
	"github.com/GTD-web/ems-backend-sub027/pkg/export"
)

func newExportFixture() *SummaryExportService {
	summaries, _, _ := summaryFixture(standardBands(), nil)
	directory := NewDirectoryService(newStubEmployees(), stubLines{}, nil, time.Minute, nil)
	svc := NewSummaryExportService(summaries, directory, nil)
	svc.now = func() time.Time { return time.Date(2026, 7, 1, 9, 30, 0, 0, time.UTC) }
	return svc
}

func TestSummaryExportCSV(t *testing.T) {
	svc := newExportFixture()

	file, err := svc.Export(context.Background(), testPeriod, []string{testEvaluatee, testEvaluatee}, export.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "period-1/summary-20260701T093000Z.csv", file.Name)
	assert.Equal(t, 4, file.Rows)

	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, strings.Join(summaryExportHeaders, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "emp-1,Kim Minji,criteria,pending,,,,"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "emp-1,Kim Minji,self,pending,93.00,A,2,"), lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "emp-1,Kim Minji,primary,pending,80.00,B,1,"), lines[3])
	assert.True(t, strings.HasPrefix(lines[4], "emp-1,Kim Minji,secondary,pending,,,0,"), lines[4])
}

func TestSummaryExportValidation(t *testing.T) {
	svc := newExportFixture()
	ctx := context.Background()

	_, err := svc.Export(ctx, "", []string{testEvaluatee}, export.FormatCSV)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Export(ctx, testPeriod, []string{""}, export.FormatCSV)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Export(ctx, testPeriod, []string{testEvaluatee}, export.Format("pdf"))
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Export(ctx, "period-x", []string{testEvaluatee}, export.FormatCSV)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
