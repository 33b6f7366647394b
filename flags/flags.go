package flags

import (
	"fmt"

	"github.com/urfave/cli/v2"

	opservice "github.com/ethereum-optimism/optimism/op-service"
	opflags "github.com/ethereum-optimism/optimism/op-service/flags"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"
	opmetrics "github.com/ethereum-optimism/optimism/op-service/metrics"
)

const EnvVarPrefix = "SHUNIT"

var (
	Output = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "OUTPUT"),
		Usage:   "Path to write the XML report to. Omit to write the report to stdout.",
	}
	Timestamp = &cli.StringFlag{
		Name:    "timestamp",
		Aliases: []string{"t"},
		Value:   "none",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "TIMESTAMP"),
		Usage:   "Precision of the report timestamp attribute: 'sec', 'ms', 'ns' or 'none'",
	}
	SuiteName = &cli.StringFlag{
		Name:    "suite-name",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "SUITE_NAME"),
		Usage:   "Name of the suite in the report. Defaults to the manifest suite name, then the working directory.",
	}
	Manifest = &cli.StringFlag{
		Name:    "manifest",
		Value:   "",
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "MANIFEST"),
		Usage:   "Path to a YAML manifest listing scripts to run (eg. 'scripts.yaml')",
	}
	Concurrency = &cli.IntFlag{
		Name:    "concurrency",
		Value:   0,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "CONCURRENCY"),
		Usage:   "Maximum number of scripts to run concurrently. Set to 0 or omit for no limit.",
	}
	LiveOutput = &cli.BoolFlag{
		Name:    "live-output",
		Value:   false,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "LIVE_OUTPUT"),
		Usage:   "Stream script output to the console while scripts run",
	}
	EnvProperties = &cli.BoolFlag{
		Name:    "env-properties",
		Value:   false,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "ENV_PROPERTIES"),
		Usage:   "Record the process environment as suite properties in the report",
	}
	RunInterval = &cli.DurationFlag{
		Name:    "run-interval",
		Value:   0,
		EnvVars: opservice.PrefixEnvVar(EnvVarPrefix, "RUN_INTERVAL"),
		Usage:   "Interval between runs (e.g. '1h', '30m'). Set to 0 or omit for run-once mode.",
	}
)

var requiredFlags = []cli.Flag{}

var optionalFlags = []cli.Flag{
	Output,
	Timestamp,
	SuiteName,
	Manifest,
	Concurrency,
	LiveOutput,
	EnvProperties,
	RunInterval,
}
var Flags []cli.Flag

func init() {
	optionalFlags = append(optionalFlags, oplog.CLIFlags(EnvVarPrefix)...)
	optionalFlags = append(optionalFlags, opmetrics.CLIFlags(EnvVarPrefix)...)

	Flags = append(requiredFlags, optionalFlags...)
}

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return opflags.CheckRequiredXor(ctx)
}
