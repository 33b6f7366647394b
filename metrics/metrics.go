package metrics

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/ethereum-optimism/infra/shunit/types"
	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	MetricsNamespace = "shunit"
)

var (
	Debug                bool = true
	validResults              = []types.TestStatus{types.TestStatusPass, types.TestStatusFail, types.TestStatusError}
	nonAlphanumericRegex      = regexp.MustCompile(`[^a-zA-Z ]+`)

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	scriptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "scripts_total",
		Help:      "Count of script executions",
	}, []string{
		"suite",
		"run_id",
		"script",
		"result",
	})

	runResults = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_results",
		Help:      "Result of suite runs",
	}, []string{
		"suite",
		"run_id",
		"result",
	})

	runScriptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "run_scripts_total",
		Help:      "Total number of scripts in a run",
	}, []string{
		"suite",
		"run_id",
	})

	runScriptsPassed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "run_scripts_passed",
		Help:      "Number of passed scripts in a run",
	}, []string{
		"suite",
		"run_id",
	})

	runScriptsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "run_scripts_failed",
		Help:      "Number of failed scripts in a run",
	}, []string{
		"suite",
		"run_id",
	})

	runScriptsErrored = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "run_scripts_errored",
		Help:      "Number of errored scripts in a run",
	}, []string{
		"suite",
		"run_id",
	})

	runDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_duration",
		Help:      "Wall clock duration of suite runs",
	}, []string{
		"suite",
		"run_id",
	})
)

// errToLabel tries to make the error string a more valid Prometheus label
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	errClean := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	errClean = strings.ReplaceAll(errClean, " ", "_")
	errClean = strings.ReplaceAll(errClean, "__", "_")
	return errClean
}

func RecordError(error string) {
	if Debug {
		log.Debug("metric inc",
			"m", "errors_total",
			"error", error,
		)
	}
	errorsTotal.WithLabelValues(error).Inc()
}

// RecordErrorDetails concats the error message to the label
// and also tries to clean the label to be a valid Prometheus label
func RecordErrorDetails(label string, err error) {
	if err == nil {
		return
	}
	label = fmt.Sprintf("%s.%s", label, errToLabel(err))
	RecordError(label)
}

func RecordScriptResult(suite string, runID string, script string, result types.TestStatus) {
	if !isValidResult(result) {
		log.Error("RecordScriptResult - invalid result", "result", result)
		return
	}
	if Debug {
		log.Debug("metric inc",
			"m", "scripts_total",
			"suite", suite,
			"run_id", runID,
			"script", script,
			"result", result)
	}
	scriptsTotal.WithLabelValues(suite, runID, script, string(result)).Inc()
}

func RecordRun(
	suite string,
	runID string,
	result string,
	stats types.SuiteStats,
	duration time.Duration,
) {
	runResults.WithLabelValues(suite, runID, result).Set(1)
	runScriptsTotal.WithLabelValues(suite, runID).Add(float64(stats.Total))
	runScriptsPassed.WithLabelValues(suite, runID).Add(float64(stats.Passed))
	runScriptsFailed.WithLabelValues(suite, runID).Add(float64(stats.Failed))
	runScriptsErrored.WithLabelValues(suite, runID).Add(float64(stats.Errored))
	runDuration.WithLabelValues(suite, runID).Set(duration.Seconds())
}

func isValidResult(result types.TestStatus) bool {
	return slices.Contains(validResults, result)
}
