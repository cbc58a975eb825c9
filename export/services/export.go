package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/AEtheve/zohoxide-crm/pkg/retry"
	"github.com/AEtheve/zohoxide-crm/pkg/tokenstore"
	zohocrm "github.com/AEtheve/zohoxide-crm/pkg/zoho/crm"
)

const (
	recordsPerPage = 200
	maxWorkers     = 4
)

// ExportMetrics tracks the outcome of one export run
type ExportMetrics struct {
	ModulesSucceeded int
	ModulesFailed    int
	RecordsExported  int
	mu               sync.Mutex
}

// AddModuleSuccess records a fully exported module and its record count
func (m *ExportMetrics) AddModuleSuccess(records int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ModulesSucceeded++
	m.RecordsExported += records
}

// AddModuleFailure records a module that could not be exported
func (m *ExportMetrics) AddModuleFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ModulesFailed++
}

// Exporter dumps all records of a set of CRM modules to JSON-lines files,
// one file per module. Modules are exported concurrently, each worker with
// its own client since a client serves a single caller. When a token store
// is configured the access token is restored before the run and persisted
// after it, so repeated runs don't burn refresh calls.
type Exporter struct {
	cfg    *zohocrm.Config
	store  tokenstore.Store
	logger *zap.Logger
	outDir string
}

// NewExporter creates an Exporter. store may be nil to skip token
// persistence.
func NewExporter(cfg *zohocrm.Config, store tokenstore.Store, logger *zap.Logger, outDir string) *Exporter {
	return &Exporter{
		cfg:    cfg,
		store:  store,
		logger: logger,
		outDir: outDir,
	}
}

// ExportAll exports every module in the list and returns the run metrics.
// A failed module does not stop the others; the first failure is returned
// after all workers finish.
func (e *Exporter) ExportAll(ctx context.Context, modules []string) (*ExportMetrics, error) {
	runID := uuid.NewString()
	startTime := time.Now()
	metrics := &ExportMetrics{}

	if err := os.MkdirAll(e.outDir, 0o755); err != nil {
		return metrics, fmt.Errorf("failed to create output directory: %w", err)
	}

	e.logger.Info("Starting export run",
		zap.String("run_id", runID),
		zap.Strings("modules", modules),
		zap.String("out_dir", e.outDir))

	p := pool.New().WithMaxGoroutines(maxWorkers).WithErrors().WithContext(ctx)
	for _, module := range modules {
		module := module
		p.Go(func(ctx context.Context) error {
			records, err := e.exportModule(ctx, runID, module)
			if err != nil {
				metrics.AddModuleFailure()
				e.logger.Error("Module export failed",
					zap.Error(err),
					zap.String("run_id", runID),
					zap.String("module", module))
				return fmt.Errorf("export %s: %w", module, err)
			}
			metrics.AddModuleSuccess(records)
			e.logger.Info("Module exported",
				zap.String("run_id", runID),
				zap.String("module", module),
				zap.Int("records", records))
			return nil
		})
	}
	err := p.Wait()

	e.logger.Info("Export run finished",
		zap.String("run_id", runID),
		zap.Int("modules_succeeded", metrics.ModulesSucceeded),
		zap.Int("modules_failed", metrics.ModulesFailed),
		zap.Int("records_exported", metrics.RecordsExported),
		zap.Duration("elapsed", time.Since(startTime)))

	return metrics, err
}

func (e *Exporter) exportModule(ctx context.Context, runID, module string) (int, error) {
	cfg := *e.cfg
	if e.store != nil {
		rec, err := e.store.Load(ctx, cfg.ClientID)
		switch {
		case err == nil:
			cfg.AccessToken = rec.AccessToken
			if rec.APIDomain != "" {
				cfg.APIDomain = rec.APIDomain
			}
		case errors.Is(err, tokenstore.ErrNotFound):
			// First run, nothing to restore.
		default:
			return 0, err
		}
	}

	client, err := zohocrm.NewClientWithLogger(&cfg, e.logger)
	if err != nil {
		return 0, err
	}

	outPath := filepath.Join(e.outDir, module+".jsonl")
	out, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	defer out.Close()

	total := 0
	for page := 1; ; page++ {
		params := zohocrm.EncodeParams(map[string]string{
			"page":     strconv.Itoa(page),
			"per_page": strconv.Itoa(recordsPerPage),
		})

		result, err := retry.Do(ctx, retry.Options{MaxElapsed: 2 * time.Minute}, func() (*zohocrm.RecordPage, error) {
			result, err := client.GetMany(ctx, module, params)
			if err != nil && !isTransient(err) {
				return nil, retry.Permanent(err)
			}
			return result, err
		})
		if err != nil {
			// Zoho answers an empty page with an empty body.
			if errors.Is(err, zohocrm.ErrEmptyResponse) {
				break
			}
			return total, err
		}

		for _, raw := range result.Data {
			if _, err := out.Write(append(raw, '\n')); err != nil {
				return total, fmt.Errorf("failed to write %s: %w", outPath, err)
			}
		}
		total += len(result.Data)

		e.logger.Debug("Exported page",
			zap.String("run_id", runID),
			zap.String("module", module),
			zap.Int("page", page),
			zap.Int("records", len(result.Data)))

		if result.Info == nil || !result.Info.MoreRecords {
			break
		}
	}

	if e.store != nil && client.AccessToken() != "" {
		rec := tokenstore.Record{
			ClientID:    cfg.ClientID,
			AccessToken: client.AccessToken(),
			APIDomain:   client.APIDomain(),
		}
		if err := e.store.Save(ctx, rec); err != nil {
			// The export itself succeeded; losing the token only costs a
			// refresh on the next run.
			e.logger.Warn("Failed to persist access token", zap.Error(err))
		}
	}

	return total, nil
}

// isTransient reports whether an error is worth retrying. Structured API
// errors and unclassifiable bodies won't change on a second attempt; only
// transport-level failures might.
func isTransient(err error) bool {
	var apiErr *zohocrm.APIError
	var unexpected *zohocrm.UnexpectedResponseError
	if errors.As(err, &apiErr) || errors.As(err, &unexpected) {
		return false
	}
	if errors.Is(err, zohocrm.ErrEmptyResponse) {
		return false
	}
	return true
}
