package report

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/parity-check/internal/types"
)

// JUnitReporter writes one test case per compared label so CI systems can show parity results.
type JUnitReporter struct{}

type junitSuites struct {
	XMLName xml.Name     `xml:"testsuites"`
	Suites  []junitSuite `xml:"testsuite"`
}

type junitSuite struct {
	Name     string      `xml:"name,attr"`
	Tests    int         `xml:"tests,attr"`
	Failures int         `xml:"failures,attr"`
	Skipped  int         `xml:"skipped,attr"`
	Cases    []junitCase `xml:"testcase"`
}

type junitCase struct {
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
	Skipped   *struct{}     `xml:"skipped,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// Format returns the format name.
func (r *JUnitReporter) Format() string {
	return FormatJUnit
}

// Write encodes the comparison as a JUnit XML document.
func (r *JUnitReporter) Write(w io.Writer, c *types.Comparison, meta Meta) error {
	name := meta.Suite
	if name == "" {
		name = "parity"
	}

	grouped := c.ByLabel()
	suite := junitSuite{Name: name}

	for _, label := range c.Compared {
		tc := junitCase{Name: label, ClassName: name}
		if mismatches, ok := grouped[label]; ok {
			lines := make([]string, 0, len(mismatches))
			for _, m := range mismatches {
				lines = append(lines, describe(m))
			}
			tc.Failure = &junitFailure{
				Message: fmt.Sprintf("%d %s", len(mismatches), plural(len(mismatches), "mismatch", "mismatches")),
				Type:    mismatches[0].Kind,
				Body:    strings.Join(lines, "\n"),
			}
			suite.Failures++
		}
		suite.Cases = append(suite.Cases, tc)
	}
	for _, label := range c.Skipped {
		suite.Cases = append(suite.Cases, junitCase{Name: label, ClassName: name, Skipped: &struct{}{}})
		suite.Skipped++
	}
	suite.Tests = len(suite.Cases)

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(junitSuites{Suites: []junitSuite{suite}}); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func describe(m types.Mismatch) string {
	if m.Property != "" {
		return fmt.Sprintf("%s %s: expected %q, got %q", m.Kind, m.Property, m.Expected, m.Actual)
	}
	return fmt.Sprintf("%s: expected %q, got %q", m.Kind, m.Expected, m.Actual)
}
