package report

import (
	"context"

	"go-worklog/internal/timesheet"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// UserSummary aggregates one user's approved timesheets.
type UserSummary struct {
	TotalHours float64 `json:"total_hours"`
	Weeks      int     `json:"weeks"`
}

//go:generate mockgen -source=report_service.go -destination=mock/report_service_mock.go -package=mock
type Service interface {
	TimesheetSummary(ctx context.Context) (map[string]UserSummary, error)
	ProjectHours(ctx context.Context) (map[string]float64, error)
}

type service struct {
	sheets timesheet.Repository
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(sheets timesheet.Repository, logger ...*zap.Logger) Service {
	log := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		log = logger[0].Named("report.service")
	}
	return &service{
		sheets: sheets,
		sf:     &singleflight.Group{},
		logger: log,
	}
}

// TimesheetSummary recomputes per-user totals from approved sheets on
// every call. Reports reflect live decisions, so only concurrent
// identical queries are collapsed, nothing is cached.
func (s *service) TimesheetSummary(ctx context.Context) (map[string]UserSummary, error) {
	v, err, _ := s.sf.Do("timesheet-summary", func() (interface{}, error) {
		sheets, err := s.sheets.FindApproved(ctx)
		if err != nil {
			return nil, err
		}

		summary := make(map[string]UserSummary, len(sheets))
		for _, ts := range sheets {
			key := ts.UserID.String()
			cur := summary[key]
			cur.TotalHours += ts.Entries.TotalHours()
			cur.Weeks++
			summary[key] = cur
		}
		return summary, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]UserSummary), nil
}

// ProjectHours sums approved hours per project code across all users.
func (s *service) ProjectHours(ctx context.Context) (map[string]float64, error) {
	v, err, _ := s.sf.Do("project-hours", func() (interface{}, error) {
		sheets, err := s.sheets.FindApproved(ctx)
		if err != nil {
			return nil, err
		}

		hours := make(map[string]float64)
		for _, ts := range sheets {
			for _, entry := range ts.Entries {
				hours[entry.ProjectCode] += entry.Hours()
			}
		}
		return hours, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]float64), nil
}
