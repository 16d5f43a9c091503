package report_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"go-worklog/internal/report"
	"go-worklog/internal/timesheet"
	"go-worklog/internal/workflow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeSheetRepo struct {
	approved []timesheet.Timesheet
	err      error
}

func (f *fakeSheetRepo) WithTx(tx *sql.Tx) timesheet.Repository { return f }

func (f *fakeSheetRepo) Create(ctx context.Context, ts *timesheet.Timesheet) error { return nil }

func (f *fakeSheetRepo) FindByID(ctx context.Context, id string) (*timesheet.Timesheet, error) {
	return nil, nil
}

func (f *fakeSheetRepo) FindAllByUser(ctx context.Context, userID string) ([]timesheet.Timesheet, error) {
	return nil, nil
}

func (f *fakeSheetRepo) FindAll(ctx context.Context, status string) ([]timesheet.Timesheet, error) {
	return nil, nil
}

func (f *fakeSheetRepo) FindApproved(ctx context.Context) ([]timesheet.Timesheet, error) {
	return f.approved, f.err
}

func (f *fakeSheetRepo) Update(ctx context.Context, ts *timesheet.Timesheet) error { return nil }

func (f *fakeSheetRepo) Submit(ctx context.Context, id string, totalHours float64) (int64, error) {
	return 0, nil
}

func (f *fakeSheetRepo) TransitionStatus(ctx context.Context, id string, from, to workflow.Status, reviewedBy, comments string) (int64, error) {
	return 0, nil
}

func (f *fakeSheetRepo) Delete(ctx context.Context, id string) error { return nil }

func approvedSheet(userID uuid.UUID, week time.Time, entries ...timesheet.Entry) timesheet.Timesheet {
	return timesheet.Timesheet{
		ID:        uuid.New(),
		UserID:    userID,
		WeekStart: week,
		Entries:   entries,
		Status:    string(workflow.StatusApproved),
	}
}

func TestReportService_TimesheetSummary(t *testing.T) {
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()
	week1 := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)
	week2 := week1.AddDate(0, 0, 7)

	repo := &fakeSheetRepo{approved: []timesheet.Timesheet{
		approvedSheet(alice, week1, timesheet.Entry{ProjectCode: "ACME", Mon: 8, Tue: 8}),
		approvedSheet(alice, week2, timesheet.Entry{ProjectCode: "ACME", Wed: 4}),
		approvedSheet(bob, week1,
			timesheet.Entry{ProjectCode: "ACME", Mon: 2},
			timesheet.Entry{ProjectCode: "INT", Fri: 6},
		),
	}}
	svc := report.NewService(repo)

	t.Run("sums hours and counts weeks per user", func(t *testing.T) {
		summary, err := svc.TimesheetSummary(ctx)

		assert.NoError(t, err)
		assert.Len(t, summary, 2)
		assert.Equal(t, report.UserSummary{TotalHours: 20, Weeks: 2}, summary[alice.String()])
		assert.Equal(t, report.UserSummary{TotalHours: 8, Weeks: 1}, summary[bob.String()])
	})

	t.Run("empty when nothing approved", func(t *testing.T) {
		svc := report.NewService(&fakeSheetRepo{})

		summary, err := svc.TimesheetSummary(ctx)

		assert.NoError(t, err)
		assert.Empty(t, summary)
	})
}

func TestReportService_ProjectHours(t *testing.T) {
	ctx := context.Background()
	alice := uuid.New()
	week := time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC)

	repo := &fakeSheetRepo{approved: []timesheet.Timesheet{
		approvedSheet(alice, week,
			timesheet.Entry{ProjectCode: "ACME", Mon: 8, Tue: 4},
			timesheet.Entry{ProjectCode: "INT", Wed: 2},
		),
		approvedSheet(uuid.New(), week, timesheet.Entry{ProjectCode: "ACME", Fri: 6}),
	}}
	svc := report.NewService(repo)

	hours, err := svc.ProjectHours(ctx)

	assert.NoError(t, err)
	assert.Equal(t, float64(18), hours["ACME"])
	assert.Equal(t, float64(2), hours["INT"])
}

func TestExportCSV(t *testing.T) {
	summary := map[string]report.UserSummary{
		"u2": {TotalHours: 8, Weeks: 1},
		"u1": {TotalHours: 20.5, Weeks: 2},
	}

	data, err := report.ExportTimesheetSummaryCSV(summary)

	assert.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "user_id,total_hours,weeks", lines[0])
	// Rows come out key sorted.
	assert.Equal(t, "u1,20.50,2", lines[1])
	assert.Equal(t, "u2,8.00,1", lines[2])
}

func TestExportXLSX(t *testing.T) {
	data, err := report.ExportXLSX(
		map[string]report.UserSummary{"u1": {TotalHours: 10, Weeks: 1}},
		map[string]float64{"ACME": 10},
	)

	assert.NoError(t, err)
	assert.NotEmpty(t, data)
}
