package reporting

import (
	"encoding/xml"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/acarl005/stripansi"
	"github.com/ethereum-optimism/infra/shunit/types"
)

// TimestampPrecision selects how the suite timestamp attribute is rendered
type TimestampPrecision string

const (
	TimestampSeconds TimestampPrecision = "sec"
	TimestampMillis  TimestampPrecision = "ms"
	TimestampNanos   TimestampPrecision = "ns"
	TimestampNone    TimestampPrecision = "none"
)

// ParseTimestampPrecision validates a timestamp precision value. Anything
// unrecognized is a configuration error, never a silent fallback.
func ParseTimestampPrecision(s string) (TimestampPrecision, error) {
	switch TimestampPrecision(s) {
	case TimestampSeconds, TimestampMillis, TimestampNanos, TimestampNone:
		return TimestampPrecision(s), nil
	default:
		return "", fmt.Errorf("invalid timestamp precision %q (want sec, ms, ns or none)", s)
	}
}

type xmlTestSuite struct {
	XMLName    xml.Name       `xml:"testsuite"`
	Name       string         `xml:"name,attr"`
	Tests      int            `xml:"tests,attr"`
	Failures   int            `xml:"failures,attr"`
	Errors     int            `xml:"errors,attr"`
	Time       string         `xml:"time,attr"`
	Timestamp  string         `xml:"timestamp,attr,omitempty"`
	Hostname   string         `xml:"hostname,attr,omitempty"`
	Properties *xmlProperties `xml:"properties,omitempty"`
	TestCases  []xmlTestCase  `xml:"testcase"`
}

type xmlProperties struct {
	Properties []xmlProperty `xml:"property"`
}

type xmlProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type xmlTestCase struct {
	Name      string      `xml:"name,attr"`
	Classname string      `xml:"classname,attr"`
	Time      string      `xml:"time,attr"`
	Failure   *xmlFailure `xml:"failure,omitempty"`
	Error     *xmlFailure `xml:"error,omitempty"`
	SystemOut string      `xml:"system-out,omitempty"`
	SystemErr string      `xml:"system-err,omitempty"`
}

type xmlFailure struct {
	Message  string `xml:"message,attr"`
	Type     string `xml:"type,attr"`
	Contents string `xml:",chardata"`
}

// JUnitSerializer renders a test suite as a JUnit XML document. Serializing
// the same suite value always yields the same bytes.
type JUnitSerializer struct {
	precision TimestampPrecision
}

// NewJUnitSerializer creates a serializer with the given timestamp precision
func NewJUnitSerializer(precision TimestampPrecision) *JUnitSerializer {
	return &JUnitSerializer{precision: precision}
}

// Serialize renders the suite as a complete XML document
func (s *JUnitSerializer) Serialize(suite *types.TestSuite) ([]byte, error) {
	doc := xmlTestSuite{
		Name:     suite.Name,
		Tests:    suite.Stats.Total,
		Failures: suite.Stats.Failed,
		Errors:   suite.Stats.Errored,
		Time:     formatSeconds(suite.Duration),
		Hostname: suite.Hostname,
	}

	switch s.precision {
	case TimestampSeconds:
		doc.Timestamp = strconv.FormatInt(suite.Timestamp.Unix(), 10)
	case TimestampMillis:
		doc.Timestamp = strconv.FormatInt(suite.Timestamp.UnixMilli(), 10)
	case TimestampNanos:
		doc.Timestamp = strconv.FormatInt(suite.Timestamp.UnixNano(), 10)
	case TimestampNone:
		// Attribute omitted entirely
	default:
		return nil, fmt.Errorf("invalid timestamp precision %q", s.precision)
	}

	if len(suite.Properties) > 0 {
		doc.Properties = &xmlProperties{Properties: sortedProperties(suite.Properties)}
	}

	doc.TestCases = make([]xmlTestCase, 0, len(suite.Cases))
	for i := range suite.Cases {
		doc.TestCases = append(doc.TestCases, newXMLTestCase(&suite.Cases[i]))
	}

	out, err := xml.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshaling report: %w", err)
	}

	return append([]byte(xml.Header), append(out, '\n')...), nil
}

func newXMLTestCase(tc *types.TestCase) xmlTestCase {
	x := xmlTestCase{
		Name:      tc.Name,
		Classname: tc.Classname,
		Time:      formatSeconds(tc.Duration),
		SystemOut: sanitize(tc.Stdout),
		SystemErr: sanitize(tc.Stderr),
	}

	switch tc.Status {
	case types.TestStatusFail:
		x.Failure = &xmlFailure{
			Message:  tc.FailureMessage,
			Type:     tc.FailureType,
			Contents: sanitize(tc.Stderr),
		}
	case types.TestStatusError:
		x.Error = &xmlFailure{
			Message:  tc.FailureMessage,
			Type:     tc.FailureType,
			Contents: sanitize(tc.Stderr),
		}
	}

	return x
}

// sanitize strips terminal escape sequences from script output before it is
// embedded in the document. Their ESC byte is not a legal XML 1.0 character
// and the sequences are styling, not data.
func sanitize(s string) string {
	return stripansi.Strip(s)
}

// formatSeconds renders a duration as seconds with exactly three decimals
func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}

func sortedProperties(props map[string]string) []xmlProperty {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	slices.Sort(names)

	out := make([]xmlProperty, 0, len(names))
	for _, name := range names {
		out = append(out, xmlProperty{Name: name, Value: sanitize(props[name])})
	}
	return out
}
