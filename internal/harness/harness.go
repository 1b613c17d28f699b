// Package harness runs named documents through the parser and checks each outcome against
// an expected error substring.
package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"

	"github.com/Azure/bulba/internal/logging"
	"github.com/Azure/bulba/parser"
)

// Case is a single document and its expected outcome.
// An empty Error means the input must parse.
type Case struct {
	Name  string
	Input []byte
	Error string
}

type Result struct {
	Case   Case
	Passed bool
	Err    error  // returned by the parser, if any
	Reason string // why the case failed
}

const sampleDocument = `BULBA!
zZz Basic Configuration
app_name ~~~~~~> "Pokedex_API"
version  ~~~~~~> 1.5
is_production ~> NotVeryEffective
missing_data ~> MissingNo

zZz Database Connection (Level 1)
(o) database (o)
    host ~~~~> "127.0.0.1"

    zZz Connection Pool Settings (Level 2)
    (O) pool (O)
        max_connections ~~~~> 100

        zZz Critical Kernel flags (Level 3)
        (@) KERNEL_FLAGS (@)
            panic_on_fail ~~~~> SuperEffective

zZz Allowed Users List
whitelist ~~~~> <| "Prof_Oak", "Mom" |>
`

// DefaultCases returns the built-in suite: one valid document and one case per common failure.
func DefaultCases() []Case {
	return []Case{
		{Name: "Valid", Input: []byte(sampleDocument)},
		{Name: "Invalid Header", Input: []byte("NOT_BULBA!\nkey ~> \"val\""), Error: "Status: Fainted"},
		{Name: "Tab Character", Input: []byte("BULBA!\n\tkey ~> \"val\""), Error: "Poison Type"},
		{Name: "Bad Indentation", Input: []byte("BULBA!\n key ~> \"val\""), Error: "The attack missed!"},
		{Name: "Charizard Key", Input: []byte("BULBA!\nCharizard ~> \"Fire\""), Error: "It burns the bulb"},
		{Name: "Deep Nesting Violation", Input: []byte("BULBA!\n(o) level1 (o)\n        (@) level3 (@)\n            key ~> \"val\""), Error: "Not enough badges!"},
		{Name: "Invalid Type", Input: []byte("BULBA!\nkey ~> UnknownType"), Error: "Target is immune!"},
	}
}

// LoadDir reads a case from every *.bson file in dir. A sibling file with the .error extension
// holds the expected error substring; without one the document must parse.
func LoadDir(dir string) ([]Case, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.bson"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .bson files found in %s", dir)
	}

	cases := make([]Case, 0, len(files))
	for _, file := range files {
		input, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading case: %w", err)
		}

		c := Case{Name: strings.TrimSuffix(filepath.Base(file), ".bson"), Input: input}
		expected, err := os.ReadFile(strings.TrimSuffix(file, ".bson") + ".error")
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading expected error: %w", err)
		}
		c.Error = strings.TrimSpace(string(expected))
		cases = append(cases, c)
	}
	return cases, nil
}

// Runner evaluates cases with a parser.
type Runner struct {
	parser *parser.Parser
	events *logging.EventLogger
}

func NewRunner(p *parser.Parser) *Runner {
	return &Runner{parser: p, events: logging.NewEventLogger()}
}

// Run evaluates every case in order. Cases are independent, a failure never stops the run.
func (r *Runner) Run(ctx context.Context, cases []Case) []Result {
	logger := logr.FromContextOrDiscard(ctx)
	results := make([]Result, 0, len(cases))
	for _, c := range cases {
		if ctx.Err() != nil {
			logger.V(1).Info("run canceled", "remaining", len(cases)-len(results))
			break
		}

		res := r.evaluate(c)
		r.events.Log(ctx, resultMessage(res), resultFields(res)...)
		results = append(results, res)
	}
	return results
}

// Run evaluates cases with a parser that logs through the context's logger.
func Run(ctx context.Context, cases []Case) []Result {
	return NewRunner(parser.New(parser.Options{Logger: logr.FromContextOrDiscard(ctx)})).Run(ctx, cases)
}

func (r *Runner) evaluate(c Case) Result {
	_, err := r.parser.Parse(c.Input)
	res := Result{Case: c, Err: err}

	switch {
	case c.Error == "" && err != nil:
		res.Reason = fmt.Sprintf("expected success but got %s", err)
	case c.Error != "" && err == nil:
		res.Reason = fmt.Sprintf("expected error %s but got none", c.Error)
	case c.Error != "" && !strings.Contains(err.Error(), c.Error):
		res.Reason = fmt.Sprintf("expected error %s but got %s", c.Error, err)
	default:
		res.Passed = true
	}
	return res
}

func resultMessage(res Result) string {
	if res.Passed {
		return "case passed"
	}
	return "case failed"
}

func resultFields(res Result) []any {
	fields := []any{"case", res.Case.Name, "passed", res.Passed}
	if res.Case.Error != "" {
		fields = append(fields, "expectedError", res.Case.Error)
	}

	var perr *parser.Error
	if errors.As(res.Err, &perr) {
		fields = append(fields, "errorKind", perr.Kind.String(), "line", perr.Line)
	}
	if res.Reason != "" {
		fields = append(fields, "reason", res.Reason)
	}
	return fields
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, res := range results {
		if !res.Passed {
			failed = append(failed, res)
		}
	}
	return failed
}

// Report writes one line per result followed by a summary.
func Report(w io.Writer, results []Result) error {
	for _, res := range results {
		var err error
		if res.Passed {
			_, err = fmt.Fprintf(w, "Test %s: PASS\n", res.Case.Name)
		} else {
			_, err = fmt.Fprintf(w, "Test %s: FAIL - %s\n", res.Case.Name, res.Reason)
		}
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d/%d passed\n", len(results)-len(Failed(results)), len(results))
	return err
}
