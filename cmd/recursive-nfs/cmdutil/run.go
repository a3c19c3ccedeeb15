package cmdutil

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/marmos91/recursive-nfs/internal/logger"
	"github.com/marmos91/recursive-nfs/internal/telemetry"
	"github.com/marmos91/recursive-nfs/pkg/apiclient"
	"github.com/marmos91/recursive-nfs/pkg/config"
)

// Version is reported to the trace backend. Set by the commands package.
var Version = "dev"

// shutdownTimeout bounds the final trace export.
const shutdownTimeout = 5 * time.Second

// Run is the per-invocation state shared by commands that talk to the
// appliance.
type Run struct {
	ID     string
	Config *config.Config
	Client *apiclient.Client

	shutdown func(context.Context) error
}

// InitLogger initializes the structured logger from configuration. --verbose
// forces DEBUG.
func InitLogger(cfg *config.Config) error {
	loggerCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if Flags.Verbose {
		loggerCfg.Level = "DEBUG"
	}
	if err := logger.Init(loggerCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// StartRun initializes logging and tracing, tags ctx with a fresh run id and
// builds the appliance client. Callers must Close the run.
func StartRun(ctx context.Context, cfg *config.Config, dryRun bool) (context.Context, *Run, error) {
	if err := InitLogger(cfg); err != nil {
		return ctx, nil, err
	}

	telCfg := telemetry.DefaultConfig()
	telCfg.Enabled = cfg.Telemetry.Enabled
	telCfg.ServiceVersion = Version
	if cfg.Telemetry.Endpoint != "" {
		telCfg.Endpoint = cfg.Telemetry.Endpoint
	}
	telCfg.Insecure = cfg.Telemetry.Insecure
	telCfg.SampleRate = cfg.Telemetry.SampleRate

	shutdown, err := telemetry.Init(ctx, telCfg)
	if err != nil {
		return ctx, nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	run := &Run{
		ID:       uuid.NewString(),
		Config:   cfg,
		Client:   NewClient(cfg),
		shutdown: shutdown,
	}

	lc := logger.NewLogContext(run.ID)
	lc.DryRun = dryRun
	ctx = logger.WithContext(ctx, lc)

	logger.DebugCtx(ctx, "Run started",
		logger.KeyURL, cfg.ApplianceAPI.BaseURL(),
		"telemetry", telCfg.Enabled,
	)
	return ctx, run, nil
}

// NewClient builds the appliance client described by cfg.
func NewClient(cfg *config.Config) *apiclient.Client {
	api := cfg.ApplianceAPI
	return apiclient.New(api.BaseURL(),
		apiclient.WithTimeout(api.Timeout),
		apiclient.WithInsecureTLS(api.InsecureSkipVerify),
	).WithToken(api.Key)
}

// EnsureAvailable probes the appliance and fails when it does not answer.
func (r *Run) EnsureAvailable(ctx context.Context) error {
	if !r.Client.CheckAvailability(ctx) {
		return fmt.Errorf("appliance API at %s is not available", r.Client.BaseURL())
	}
	return nil
}

// Close flushes traces.
func (r *Run) Close() {
	if r == nil || r.shutdown == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := r.shutdown(ctx); err != nil {
		logger.Warn("Failed to flush traces", logger.Err(err))
	}
}
