package report

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/backoffice-service/internal/events"
	"github.com/spec-kit/backoffice-service/internal/storage"
)

// Report names accepted by the engine.
const (
	ReportAccounts = "accounts"
	ReportYearly   = "yearly"
	ReportFS       = "fs"
)

// ErrUnknownReport is returned by Run for names outside the job table.
var ErrUnknownReport = errors.New("unknown report type")

type aggregator interface {
	// excludeInput names an input file skipped to avoid re-ingesting a
	// prior output, empty when none.
	excludeInput() string
	// consumeRow processes one non-blank row and reports whether it
	// counted toward recordsProcessed.
	consumeRow(fields []string) bool
	render() []byte
}

type jobSpec struct {
	outputFile    string
	newAggregator func() aggregator
}

var jobs = map[string]jobSpec{
	ReportAccounts: {outputFile: "accounts.csv", newAggregator: newAccountsAggregator},
	ReportYearly:   {outputFile: "yearly.csv", newAggregator: newYearlyAggregator},
	ReportFS:       {outputFile: "fs.csv", newAggregator: newStatementAggregator},
}

// Names returns the report names in presentation order.
func Names() []string {
	return []string{ReportAccounts, ReportYearly, ReportFS}
}

// Valid reports whether name is a known report.
func Valid(name string) bool {
	_, ok := jobs[name]
	return ok
}

// OutputFile returns the output file name for a known report, "" otherwise.
func OutputFile(name string) string {
	return jobs[name].outputFile
}

// Engine drives report jobs through idle → processing → completed|error and
// exposes the latest state snapshot to concurrent readers. Aggregation runs
// on a background goroutine per invocation; overlapping runs for the same
// report are allowed and the last writer wins on state and output.
type Engine struct {
	mu      sync.RWMutex
	states  map[string]State
	metrics map[string]Metrics

	files      storage.FileStore
	inputDir   string
	outputDir  string
	logger     *zap.Logger
	dispatcher events.Dispatcher
	fileYield  time.Duration
}

// EngineDependencies bundles collaborators for the engine.
type EngineDependencies struct {
	Files      storage.FileStore
	Logger     *zap.Logger
	Dispatcher events.Dispatcher
}

// NewEngine constructs the engine with every report idle.
func NewEngine(inputDir, outputDir string, deps EngineDependencies) *Engine {
	states := make(map[string]State, len(jobs))
	for name := range jobs {
		states[name] = State{Status: StatusIdle}
	}
	return &Engine{
		states:     states,
		metrics:    make(map[string]Metrics),
		files:      deps.Files,
		inputDir:   inputDir,
		outputDir:  outputDir,
		logger:     deps.Logger,
		dispatcher: deps.Dispatcher,
		fileYield:  time.Millisecond,
	}
}

// State returns the latest snapshot for the report, idle for unknown names.
func (e *Engine) State(name string) State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if state, ok := e.states[name]; ok {
		return state
	}
	return State{Status: StatusIdle}
}

// Metrics returns metrics of the last completed run, if any.
func (e *Engine) Metrics(name string) (Metrics, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	metrics, ok := e.metrics[name]
	return metrics, ok
}

// AllStates returns copies of both tables.
func (e *Engine) AllStates() (map[string]State, map[string]Metrics) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	states := make(map[string]State, len(e.states))
	for name, state := range e.states {
		states[name] = state
	}
	metrics := make(map[string]Metrics, len(e.metrics))
	for name, m := range e.metrics {
		metrics[name] = m
	}
	return states, metrics
}

// Run transitions the report to processing and schedules the aggregation in
// the background, returning immediately.
func (e *Engine) Run(name string) error {
	spec, ok := jobs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownReport, name)
	}

	start := time.Now()
	e.mu.Lock()
	e.states[name] = State{
		Status:           StatusProcessing,
		Progress:         0,
		StartTime:        &start,
		RecordsProcessed: 0,
	}
	e.mu.Unlock()

	e.publishEvent(events.EventReportStarted, events.ReportStartedPayload{Report: name})
	e.logger.Info("report started", zap.String("report", name))

	go e.execute(name, spec, start)
	return nil
}

func (e *Engine) execute(name string, spec jobSpec, start time.Time) {
	defer func() {
		if r := recover(); r != nil {
			e.fail(name, fmt.Errorf("panic: %v", r))
		}
	}()

	agg := spec.newAggregator()

	files, err := e.files.ListCSV(e.inputDir)
	if err != nil {
		e.fail(name, err)
		return
	}
	if exclude := agg.excludeInput(); exclude != "" {
		kept := files[:0]
		for _, file := range files {
			if file != exclude {
				kept = append(kept, file)
			}
		}
		files = kept
	}

	totalFiles := len(files)
	records := 0

	for processed, file := range files {
		if err := e.streamFile(filepath.Join(e.inputDir, file), agg, &records); err != nil {
			e.fail(name, err)
			return
		}
		progress := int(math.Round(float64(processed+1) / float64(totalFiles) * 100))
		e.updateProgress(name, progress, records)
		// Yield so status reads stay responsive during long runs.
		time.Sleep(e.fileYield)
	}

	outputPath := filepath.Join(e.outputDir, spec.outputFile)
	if err := e.files.WriteAtomic(outputPath, agg.render()); err != nil {
		e.fail(name, err)
		return
	}

	end := time.Now()
	seconds := end.Sub(start).Seconds()
	duration := fmt.Sprintf("%.2fs", seconds)

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	averagePerSecond := 0
	if seconds > 0 {
		averagePerSecond = int(math.Round(float64(records) / seconds))
	}

	e.mu.Lock()
	e.states[name] = State{
		Status:           StatusCompleted,
		Progress:         100,
		StartTime:        &start,
		EndTime:          &end,
		Duration:         duration,
		RecordsProcessed: records,
	}
	e.metrics[name] = Metrics{
		TotalExecutionTime: math.Round(seconds*100) / 100,
		RecordsProcessed:   records,
		FilesProcessed:     totalFiles,
		MemoryUsage: MemoryUsage{
			Alloc:      memStats.Alloc,
			TotalAlloc: memStats.TotalAlloc,
			Sys:        memStats.Sys,
			NumGC:      memStats.NumGC,
		},
		AverageRecordsPerSecond: averagePerSecond,
	}
	e.mu.Unlock()

	e.publishEvent(events.EventReportCompleted, events.ReportCompletedPayload{
		Report:           name,
		DurationSeconds:  math.Round(seconds*100) / 100,
		RecordsProcessed: records,
		OutputFile:       outputPath,
	})
	e.logger.Info("report completed",
		zap.String("report", name),
		zap.Int("records", records),
		zap.Int("files", totalFiles),
		zap.String("duration", duration),
	)
}

func (e *Engine) streamFile(path string, agg aggregator, records *int) error {
	reader, err := e.files.Open(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if agg.consumeRow(splitRow(line)) {
			*records++
		}
	}
	return scanner.Err()
}

func (e *Engine) updateProgress(name string, progress, records int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	state := e.states[name]
	state.Progress = progress
	state.RecordsProcessed = records
	e.states[name] = state
}

func (e *Engine) fail(name string, err error) {
	end := time.Now()
	e.mu.Lock()
	state := e.states[name]
	e.states[name] = State{
		Status:    StatusError,
		Progress:  0,
		StartTime: state.StartTime,
		EndTime:   &end,
		Error:     err.Error(),
	}
	e.mu.Unlock()

	e.publishEvent(events.EventReportFailed, events.ReportFailedPayload{
		Report: name,
		Error:  err.Error(),
	})
	e.logger.Error("report failed", zap.String("report", name), zap.Error(err))
}

func (e *Engine) publishEvent(eventType events.EventType, payload any) {
	if e.dispatcher == nil {
		return
	}
	_ = e.dispatcher.Publish(context.Background(), events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
