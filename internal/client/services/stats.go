package services

import (
	"context"
	"sort"
	"time"

	"github.com/certapply/certapply/internal/client/api"
	"github.com/certapply/certapply/internal/client/models"
)

// Aggregate counts an application population by status. NOT_SUBMITTED
// applications are conceptual and never appear in server listings, so they
// do not contribute to any bucket.
func Aggregate(apps []models.Application) models.StatusCounts {
	var counts models.StatusCounts
	for _, a := range apps {
		switch a.Status {
		case models.StatusPending:
			counts.Pending++
		case models.StatusApproved:
			counts.Approved++
		case models.StatusRejected:
			counts.Rejected++
		case models.StatusNotSubmitted:
			// not part of the reviewable population
		}
	}
	return counts
}

// ApprovalRate is approved / (approved + pending + rejected), and exactly 0
// when the population is empty.
func ApprovalRate(counts models.StatusCounts) float64 {
	total := counts.Approved + counts.Pending + counts.Rejected
	if total == 0 {
		return 0
	}
	return float64(counts.Approved) / float64(total)
}

// MonthlySeries buckets applications by submission month, oldest first.
// Applications that were never submitted carry no timestamp and are
// skipped.
func MonthlySeries(apps []models.Application) []models.PeriodCount {
	buckets := make(map[time.Time]int)
	for _, a := range apps {
		if a.SubmittedAt == nil {
			continue
		}
		y, m, _ := a.SubmittedAt.UTC().Date()
		buckets[time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)]++
	}

	months := make([]time.Time, 0, len(buckets))
	for m := range buckets {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	series := make([]models.PeriodCount, 0, len(months))
	for _, m := range months {
		series = append(series, models.PeriodCount{Period: m.Format("Jan 2006"), Count: buckets[m]})
	}
	return series
}

// PeakPeriod selects the bucket with the highest count; ties go to the
// first occurrence. Returns the zero value for an empty series.
func PeakPeriod(series []models.PeriodCount) models.PeriodCount {
	var peak models.PeriodCount
	for i, pc := range series {
		if i == 0 || pc.Count > peak.Count {
			peak = pc
		}
	}
	return peak
}

// StatsService fetches the server-side snapshot for the admin dashboard.
type StatsService interface {
	Counts(ctx context.Context) (*models.StatusCounts, error)
}

type statsService struct {
	client api.Client
}

func NewStatsService(client api.Client) StatsService {
	return &statsService{client: client}
}

func (s *statsService) Counts(ctx context.Context) (*models.StatusCounts, error) {
	return s.client.StatusCounts(ctx)
}
