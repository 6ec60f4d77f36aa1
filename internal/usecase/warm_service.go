package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/courtvision/courtvision/internal/platform/dates"
	"github.com/courtvision/courtvision/internal/platform/id"
	"github.com/courtvision/courtvision/internal/platform/logging"
)

const (
	warmStatusSuccess = "success"
	warmStatusPartial = "partial"
	warmStatusFailed  = "failed"

	warmDefaultWorkerCap = 4
)

type WarmInput struct {
	// Dates in compact YYYYMMDD form. Empty defaults to today (Eastern).
	Dates      []string
	MaxWorkers int
}

type WarmResult struct {
	JobID        string           `json:"job_id"`
	TaskCount    int              `json:"task_count"`
	SuccessCount int              `json:"success_count"`
	PartialCount int              `json:"partial_count"`
	FailedCount  int              `json:"failed_count"`
	WorkerCount  int              `json:"worker_count"`
	Tasks        []WarmTaskResult `json:"tasks"`
}

type WarmTaskResult struct {
	Date       string `json:"date"`
	Status     string `json:"status"`
	Games      int    `json:"games"`
	Mode       string `json:"mode,omitempty"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

type gamesBuilder interface {
	BuildGamesForDate(ctx context.Context, dateESPN, dateKP string) (BuildResult, error)
}

// WarmService pre-builds game days so the payload caches are hot before
// traffic arrives. Each date is one pool task; a failed date never stops
// the others.
type WarmService struct {
	builder    gamesBuilder
	ids        id.Generator
	logger     *logging.Logger
	maxWorkers int
	now        func() time.Time
}

func NewWarmService(builder gamesBuilder, ids id.Generator, logger *logging.Logger, maxWorkers int, now func() time.Time) *WarmService {
	if ids == nil {
		ids = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if maxWorkers <= 0 {
		maxWorkers = warmDefaultWorkerCap
	}
	if now == nil {
		now = time.Now
	}
	return &WarmService{
		builder:    builder,
		ids:        ids,
		logger:     logger,
		maxWorkers: maxWorkers,
		now:        now,
	}
}

func (s *WarmService) Warm(ctx context.Context, input WarmInput) (WarmResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WarmService.Warm")
	defer span.End()

	targets, err := s.normalizeWarmDates(input.Dates)
	if err != nil {
		return WarmResult{}, err
	}

	jobID, err := s.ids.NewID()
	if err != nil {
		return WarmResult{}, fmt.Errorf("generate job id: %w", err)
	}

	workerCount := normalizeWarmWorkerCount(input.MaxWorkers, s.maxWorkers, len(targets))
	result := WarmResult{
		JobID:       jobID,
		TaskCount:   len(targets),
		WorkerCount: workerCount,
		Tasks:       make([]WarmTaskResult, 0, len(targets)),
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return WarmResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan WarmTaskResult, len(targets))

	var successCount atomic.Int32
	var partialCount atomic.Int32
	var failedCount atomic.Int32

	var workers sync.WaitGroup
	for _, date := range targets {
		date := date
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := WarmTaskResult{Date: date}

			built, buildErr := s.builder.BuildGamesForDate(ctx, date, dates.ToDashed(date))
			row.DurationMs = time.Since(start).Milliseconds()

			switch {
			case buildErr != nil:
				row.Status = warmStatusFailed
				row.Message = buildErr.Error()
				failedCount.Add(1)
			case built.Error != nil:
				row.Status = warmStatusFailed
				row.Message = built.Error.Message
				failedCount.Add(1)
			case built.MissingCount > 0:
				row.Status = warmStatusPartial
				row.Games = built.Count
				row.Mode = built.Mode
				partialCount.Add(1)
			default:
				row.Status = warmStatusSuccess
				row.Games = built.Count
				row.Mode = built.Mode
				successCount.Add(1)
			}

			results <- row
		}); err != nil {
			workers.Done()
			return WarmResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Tasks = append(result.Tasks, row)
	}
	sort.SliceStable(result.Tasks, func(i, j int) bool {
		return result.Tasks[i].Date < result.Tasks[j].Date
	})

	result.SuccessCount = int(successCount.Load())
	result.PartialCount = int(partialCount.Load())
	result.FailedCount = int(failedCount.Load())

	s.logger.InfoContext(ctx, "cache warm finished",
		"job_id", result.JobID,
		"tasks", result.TaskCount,
		"success", result.SuccessCount,
		"partial", result.PartialCount,
		"failed", result.FailedCount,
	)
	return result, nil
}

func (s *WarmService) normalizeWarmDates(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return []string{dates.TodayEastern(s.now())}, nil
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		date := strings.TrimSpace(item)
		if date == "" {
			continue
		}
		if _, err := time.Parse(dates.LayoutCompact, date); err != nil {
			return nil, fmt.Errorf("%w: date must be YYYYMMDD, got %q", ErrInvalidInput, item)
		}
		if _, exists := seen[date]; exists {
			continue
		}
		seen[date] = struct{}{}
		out = append(out, date)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: at least one date is required", ErrInvalidInput)
	}
	return out, nil
}

// normalizeWarmWorkerCount clamps the requested pool size to the configured
// maximum. An unspecified request uses the full configured pool.
func normalizeWarmWorkerCount(value, maxWorkers, taskCount int) int {
	if maxWorkers <= 0 {
		maxWorkers = warmDefaultWorkerCap
	}
	if taskCount <= 0 {
		return 1
	}
	if value <= 0 || value > maxWorkers {
		value = maxWorkers
	}
	if value > taskCount {
		value = taskCount
	}
	return value
}
