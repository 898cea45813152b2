// Package daemon runs tagwarden in watch mode: periodic scans, a
// Prometheus metrics endpoint, and a health endpoint.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"os"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tagwarden/tagwarden/orchestrator"
	"github.com/tagwarden/tagwarden/telemetry"
	"github.com/tagwarden/tagwarden/types"
)

// Config holds daemon configuration
type Config struct {
	Interval    time.Duration
	MetricsAddr string
}

// ScanFunc runs one full multi-region scan
type ScanFunc func(ctx context.Context) (*types.MultiRegionComplianceResult, error)

// ScanRecorder persists scan results between runs
type ScanRecorder interface {
	RecordScan(result *types.MultiRegionComplianceResult) (int64, error)
}

// Daemon manages the continuous scan loop
type Daemon struct {
	interval    time.Duration
	metricsAddr string
	scan        ScanFunc
	recorder    ScanRecorder
	logger      *telemetry.Logger

	startTime time.Time
	scanCount atomic.Int64
	failCount atomic.Int64
	lastScore atomic.Uint64 // math.Float64bits of the last compliance score
}

// NewDaemon creates a daemon around a scan function
func NewDaemon(cfg Config, scan ScanFunc, recorder ScanRecorder) *Daemon {
	return &Daemon{
		interval:    cfg.Interval,
		metricsAddr: cfg.MetricsAddr,
		scan:        scan,
		recorder:    recorder,
		logger:      telemetry.NewLogger("daemon"),
		startTime:   time.Now(),
	}
}

// Run starts the scan loop and the metrics server, and blocks until the
// context is done or a signal arrives. The first scan runs immediately,
// not one interval in.
func (d *Daemon) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var g run.Group

	g.Add(func() error {
		return d.scanLoop(ctx)
	}, func(error) {
		cancel()
	})

	server := &http.Server{
		Addr:              d.metricsAddr,
		Handler:           d.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	g.Add(func() error {
		return server.ListenAndServe()
	}, func(error) {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = server.Shutdown(shutdownCtx)
	})

	g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))

	err := g.Run()
	var sig run.SignalError
	if errors.As(err, &sig) || errors.Is(err, http.ErrServerClosed) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (d *Daemon) scanLoop(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.runScan(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			d.runScan(ctx)
		}
	}
}

func (d *Daemon) runScan(ctx context.Context) {
	d.scanCount.Add(1)
	start := time.Now()

	result, err := d.scan(ctx)
	if err != nil {
		d.failCount.Add(1)
		d.logger.WithContext(ctx).Error().
			Err(err).
			Dur("duration", time.Since(start)).
			Msg("scheduled scan failed")
		return
	}

	d.lastScore.Store(scoreBits(result.ComplianceScore))

	d.logger.WithContext(ctx).Info().
		Float64("compliance_score", result.ComplianceScore).
		Int("violations", len(result.Violations)).
		Dur("duration", time.Since(start)).
		Msg("scheduled scan complete")

	if d.recorder != nil {
		if _, err := d.recorder.RecordScan(result); err != nil {
			d.logger.WithContext(ctx).Warn().
				Err(err).
				Msg("failed to persist scan result")
		}
	}
}

func (d *Daemon) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(
		telemetry.PrometheusRegistry,
		promhttp.HandlerOpts{},
	))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(d.Health())
	})
	return mux
}

// HealthStatus represents daemon health
type HealthStatus struct {
	Status        string  `json:"status"`
	UptimeSeconds int64   `json:"uptime_seconds"`
	ScansRun      int64   `json:"scans_run"`
	ScansFailed   int64   `json:"scans_failed"`
	LastScore     float64 `json:"last_compliance_score"`
}

// Health returns daemon health status
func (d *Daemon) Health() HealthStatus {
	return HealthStatus{
		Status:        "healthy",
		UptimeSeconds: int64(time.Since(d.startTime).Seconds()),
		ScansRun:      d.scanCount.Load(),
		ScansFailed:   d.failCount.Load(),
		LastScore:     scoreFromBits(d.lastScore.Load()),
	}
}

// ScanCount returns total scheduled scans run
func (d *Daemon) ScanCount() int64 {
	return d.scanCount.Load()
}

// OrchestratorScan curries an orchestrator and a fixed request into the
// ScanFunc the daemon repeats.
func OrchestratorScan(o *orchestrator.Orchestrator, req orchestrator.ScanRequest) ScanFunc {
	return func(ctx context.Context) (*types.MultiRegionComplianceResult, error) {
		return o.Scan(ctx, req)
	}
}

func scoreBits(score float64) uint64 {
	return math.Float64bits(score)
}

func scoreFromBits(bits uint64) float64 {
	if bits == 0 {
		return 0
	}
	return math.Float64frombits(bits)
}
