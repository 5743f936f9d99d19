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
	"github.com/riskibarqy/scouting-report/internal/platform/logging"
)

const (
	batchStatusSuccess = "success"
	batchStatusFailed  = "failed"
	batchStatusSkipped = "skipped"

	defaultBatchWorkers = 4
	maxBatchWorkers     = 16
)

// DocumentWriter stores one rendered report.
type DocumentWriter interface {
	Write(ctx context.Context, doc Document) (string, error)
}

type BatchInput struct {
	Names      []string
	MaxWorkers int
}

type BatchResult struct {
	TaskCount    int               `json:"task_count"`
	SuccessCount int               `json:"success_count"`
	FailedCount  int               `json:"failed_count"`
	SkippedCount int               `json:"skipped_count"`
	WorkerCount  int               `json:"worker_count"`
	Tasks        []BatchTaskResult `json:"tasks"`
}

type BatchTaskResult struct {
	Name       string `json:"name"`
	Source     string `json:"source,omitempty"`
	PlayerID   string `json:"player_id,omitempty"`
	Status     string `json:"status"`
	Output     string `json:"output,omitempty"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

// BatchService generates reports for many players with a bounded pool.
// Failures are recorded per name and never abort the batch.
type BatchService struct {
	reports *ReportService
	writer  DocumentWriter
	logger  *logging.Logger
}

func NewBatchService(reports *ReportService, writer DocumentWriter, logger *logging.Logger) *BatchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &BatchService{reports: reports, writer: writer, logger: logger}
}

func (s *BatchService) Generate(ctx context.Context, input BatchInput) (BatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BatchService.Generate")
	defer span.End()

	names := make([]string, 0, len(input.Names))
	seen := make(map[string]struct{}, len(input.Names))
	for _, name := range input.Names {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, name)
	}
	if len(names) == 0 {
		return BatchResult{}, fmt.Errorf("%w: at least one player name is required", ErrInvalidInput)
	}
	if s.writer == nil {
		return BatchResult{}, fmt.Errorf("%w: no document writer configured", ErrDependencyUnavailable)
	}

	workerCount := input.MaxWorkers
	if workerCount <= 0 {
		workerCount = defaultBatchWorkers
	}
	workerCount = min(workerCount, maxBatchWorkers, len(names))

	result := BatchResult{TaskCount: len(names), WorkerCount: workerCount}
	results := make(chan BatchTaskResult, len(names))

	var successCount atomic.Int32
	var failedCount atomic.Int32
	var skippedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return BatchResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, name := range names {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := s.runTask(ctx, name)
			row.DurationMs = time.Since(start).Milliseconds()

			switch row.Status {
			case batchStatusSuccess:
				successCount.Add(1)
			case batchStatusSkipped:
				skippedCount.Add(1)
			default:
				failedCount.Add(1)
				s.logger.WarnContext(ctx, "report generation failed", "name", name, "error", row.Message)
			}
			results <- row
		}); err != nil {
			workers.Done()
			return BatchResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Tasks = append(result.Tasks, row)
	}
	sort.SliceStable(result.Tasks, func(i, j int) bool {
		return result.Tasks[i].Name < result.Tasks[j].Name
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	result.SkippedCount = int(skippedCount.Load())
	return result, nil
}

func (s *BatchService) runTask(ctx context.Context, name string) BatchTaskResult {
	row := BatchTaskResult{Name: name}

	matches, err := s.reports.Search(ctx, name, 1)
	if err != nil {
		row.Status, row.Message = batchStatusFailed, err.Error()
		return row
	}
	if len(matches) == 0 {
		row.Status, row.Message = batchStatusSkipped, "no player matched"
		return row
	}

	match := matches[0]
	row.Source, row.PlayerID = match.Source, match.ID

	report, err := s.reports.BuildReport(ctx, match.Source, match.ID)
	if err != nil {
		row.Status, row.Message = batchStatusFailed, err.Error()
		return row
	}
	doc, err := s.reports.RenderPDF(ctx, report)
	if err != nil {
		row.Status, row.Message = batchStatusFailed, err.Error()
		return row
	}
	output, err := s.writer.Write(ctx, doc)
	if err != nil {
		row.Status, row.Message = batchStatusFailed, err.Error()
		return row
	}

	row.Status, row.Output = batchStatusSuccess, output
	return row
}
