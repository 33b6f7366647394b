package shunit

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/infra/shunit/flags"
	"github.com/ethereum-optimism/infra/shunit/reporting"
	"github.com/ethereum/go-ethereum/log"
)

type Config struct {
	Scripts            []string
	Manifest           string
	Output             string
	TimestampPrecision reporting.TimestampPrecision
	SuiteName          string
	Concurrency        int
	LiveOutput         bool
	EnvProperties      bool
	RunInterval        time.Duration
	RunOnce            bool

	Log log.Logger
}

// NewConfig creates a new Config from the cli context. The positional
// arguments are treated as script paths and keep their order in the report.
func NewConfig(ctx *cli.Context, log log.Logger) (*Config, error) {
	// Parse flags
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, fmt.Errorf("missing required flags: %w", err)
	}

	precision, err := reporting.ParseTimestampPrecision(ctx.String(flags.Timestamp.Name))
	if err != nil {
		return nil, err
	}

	concurrency := ctx.Int(flags.Concurrency.Name)
	if concurrency < 0 {
		return nil, fmt.Errorf("concurrency must not be negative, got %d", concurrency)
	}

	runInterval := ctx.Duration(flags.RunInterval.Name)
	runOnce := runInterval == 0

	return &Config{
		Scripts:            ctx.Args().Slice(),
		Manifest:           ctx.String(flags.Manifest.Name),
		Output:             ctx.String(flags.Output.Name),
		TimestampPrecision: precision,
		SuiteName:          ctx.String(flags.SuiteName.Name),
		Concurrency:        concurrency,
		LiveOutput:         ctx.Bool(flags.LiveOutput.Name),
		EnvProperties:      ctx.Bool(flags.EnvProperties.Name),
		RunInterval:        runInterval,
		RunOnce:            runOnce,
		Log:                log,
	}, nil
}
