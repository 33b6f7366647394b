package shunit

import (
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"github.com/ethereum-optimism/infra/shunit/reporting"
	"github.com/ethereum-optimism/infra/shunit/types"
)

// ReportWriter is responsible for persisting suite results.
type ReportWriter interface {
	WriteReport(suite *types.TestSuite) error
}

// JUnitReportWriter implements the ReportWriter interface. It renders the
// suite as JUnit XML and hands the document to the configured sink.
type JUnitReportWriter struct {
	logger     log.Logger
	serializer *reporting.JUnitSerializer
	sink       reporting.Sink
}

// NewJUnitReportWriter creates a new JUnitReportWriter.
func NewJUnitReportWriter(logger log.Logger, serializer *reporting.JUnitSerializer, sink reporting.Sink) *JUnitReportWriter {
	return &JUnitReportWriter{
		logger:     logger,
		serializer: serializer,
		sink:       sink,
	}
}

// WriteReport renders the suite and writes it to the configured sink.
func (w *JUnitReportWriter) WriteReport(suite *types.TestSuite) error {
	report, err := w.serializer.Serialize(suite)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}
	if err := w.sink.Write(report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	w.logger.Info("Report written", "destination", w.sink.Destination(), "run_id", suite.RunID)
	return nil
}
