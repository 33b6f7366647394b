package shunit

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/log"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ethereum-optimism/infra/shunit/types"
)

// ResultFormatter is responsible for formatting and displaying suite results.
type ResultFormatter interface {
	FormatResults(suite *types.TestSuite) error
}

// ConsoleResultFormatter implements the ResultFormatter interface.
// It renders one table row per script. The output writer is configurable
// so the table can move to stderr when the XML report goes to stdout.
type ConsoleResultFormatter struct {
	logger log.Logger
	out    io.Writer
}

// NewConsoleResultFormatter creates a new ConsoleResultFormatter.
func NewConsoleResultFormatter(logger log.Logger, out io.Writer) *ConsoleResultFormatter {
	return &ConsoleResultFormatter{
		logger: logger,
		out:    out,
	}
}

// FormatResults formats and displays the suite results.
func (f *ConsoleResultFormatter) FormatResults(suite *types.TestSuite) error {
	f.logger.Info("Printing results...")
	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetTitle(fmt.Sprintf("Script Run Results (%s)", formatDuration(suite.Duration)))

	// Configure columns
	t.AppendHeader(table.Row{
		"Script", "Duration", "Passed", "Failed", "Errored", "Status", "Error",
	})

	// Set column configurations for better readability
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Script", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Errored", Align: text.AlignRight},
		{Name: "Error", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
	})

	for _, tc := range suite.Cases {
		t.AppendRow(table.Row{
			tc.Name,
			formatDuration(tc.Duration),
			boolToInt(tc.Status == types.TestStatusPass),
			boolToInt(tc.Status == types.TestStatusFail),
			boolToInt(tc.Status == types.TestStatusError),
			getResultString(tc.Status),
			tc.FailureMessage,
		})
	}

	// Update the table style setting based on suite status
	if suite.Status == types.TestStatusPass {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	} else if suite.Status == types.TestStatusError {
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}

	// Add summary footer
	t.AppendFooter(table.Row{
		"TOTAL",
		formatDuration(suite.Duration),
		suite.Stats.Passed,
		suite.Stats.Failed,
		suite.Stats.Errored,
		getResultString(suite.Status),
		"",
	})

	t.Render()

	fmt.Fprintln(f.out, suite.String())

	return nil
}
