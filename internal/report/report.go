// Package report renders a ScenarioResult into the three on-disk formats
// spec.md §4.8 names: report.json, report.html, and junit.xml. HTML
// rendering follows the teacher's text/template approach
// (internal/tester/template.go), adapted to html/template since this
// document is real HTML rather than the teacher's rendered Markdown, and
// inline rather than file-backed since there is no persona content to
// externalize here.
package report

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/kawanishi0117/flowrunner/internal/artifacts"
	"github.com/kawanishi0117/flowrunner/internal/runner"
	"github.com/kawanishi0117/flowrunner/internal/scenario"
)

// masked returns a copy of res with every secret value collected from s
// replaced by *** in every rendered text field, so report.json,
// report.html, and junit.xml never surface a fill step's secret value
// (spec.md §4.8), the same way SaveEnvInfo masks env.json.
func masked(s *scenario.Scenario, res *runner.ScenarioResult) *runner.ScenarioResult {
	if s == nil || res == nil {
		return res
	}
	secrets := artifacts.CollectSecretValues(s)
	out := *res
	out.Title = artifacts.MaskValues(res.Title, secrets)
	out.Steps = make([]runner.StepResult, len(res.Steps))
	for i, step := range res.Steps {
		step.Name = artifacts.MaskValues(step.Name, secrets)
		step.Error = artifacts.MaskValues(step.Error, secrets)
		out.Steps[i] = step
	}
	return &out
}

type summary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

type jsonReport struct {
	*runner.ScenarioResult
	Summary summary `json:"summary"`
}

func buildSummary(res *runner.ScenarioResult) summary {
	s := summary{Total: len(res.Steps)}
	for _, step := range res.Steps {
		switch step.Status {
		case runner.StatusPassed:
			s.Passed++
		case runner.StatusFailed:
			s.Failed++
		case runner.StatusSkipped:
			s.Skipped++
		}
	}
	return s
}

// WriteJSON writes report.json under dir: the serialized result plus a
// summary block, timestamps in RFC3339 (Go's json.Marshal already
// renders time.Time that way) and forward-slash screenshot paths
// (already produced by the artifacts manager). Secret values collected
// from s are masked before writing.
func WriteJSON(dir string, s *scenario.Scenario, res *runner.ScenarioResult) error {
	res = masked(s, res)
	data, err := json.MarshalIndent(jsonReport{ScenarioResult: res, Summary: buildSummary(res)}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report.json: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "report.json"), data, 0o644)
}

// junitSuite mirrors the schema spec.md §6 names: testsuites > testsuite
// > testcase, times in seconds with three decimals.
type junitTestCase struct {
	XMLName   xml.Name `xml:"testcase"`
	ClassName string   `xml:"classname,attr"`
	Name      string   `xml:"name,attr"`
	Time      string   `xml:"time,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
	Skipped   *struct{}     `xml:"skipped,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
}

type junitSuite struct {
	XMLName  xml.Name        `xml:"testsuite"`
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Time     string          `xml:"time,attr"`
	Cases    []junitTestCase `xml:"testcase"`
}

type junitSuites struct {
	XMLName xml.Name     `xml:"testsuites"`
	Suites  []junitSuite `xml:"testsuite"`
}

// WriteJUnit writes junit.xml under dir. Secret values collected from s
// are masked before writing.
func WriteJUnit(dir string, s *scenario.Scenario, res *runner.ScenarioResult) error {
	res = masked(s, res)
	suite := junitSuite{
		Name:  res.Title,
		Tests: len(res.Steps),
		Time:  fmt.Sprintf("%.3f", float64(res.DurationMs)/1000),
	}
	for _, step := range res.Steps {
		tc := junitTestCase{
			ClassName: res.Title,
			Name:      step.Name,
			Time:      fmt.Sprintf("%.3f", float64(step.DurationMs)/1000),
		}
		switch step.Status {
		case runner.StatusFailed:
			suite.Failures++
			tc.Failure = &junitFailure{Message: step.Error}
		case runner.StatusSkipped:
			tc.Skipped = &struct{}{}
		}
		suite.Cases = append(suite.Cases, tc)
	}

	doc := junitSuites{Suites: []junitSuite{suite}}
	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal junit.xml: %w", err)
	}
	out := append([]byte(xml.Header), data...)
	return os.WriteFile(filepath.Join(dir, "junit.xml"), out, 0o644)
}

// WriteHTML writes report.html under dir: a single self-contained
// document with inline CSS, title, overall-status class, a per-step
// table (including a screenshot link when one was captured), and summary
// counts. html/template escapes step names and error text, so neither
// can inject markup into the document. Secret values collected from s
// are masked before rendering.
func WriteHTML(dir string, s *scenario.Scenario, res *runner.ScenarioResult) error {
	res = masked(s, res)
	tmpl, err := template.New("report").Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("parse report.html template: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "report.html"))
	if err != nil {
		return fmt.Errorf("create report.html: %w", err)
	}
	defer f.Close()

	data := struct {
		*runner.ScenarioResult
		Summary summary
	}{ScenarioResult: res, Summary: buildSummary(res)}
	return tmpl.Execute(f, data)
}

// WriteAll writes all three report formats under dir, masking secret
// values collected from s in each.
func WriteAll(dir string, s *scenario.Scenario, res *runner.ScenarioResult) error {
	if err := WriteJSON(dir, s, res); err != nil {
		return err
	}
	if err := WriteJUnit(dir, s, res); err != nil {
		return err
	}
	return WriteHTML(dir, s, res)
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #1a1a1a; }
h1 { margin-bottom: 0.2rem; }
.status-passed { color: #15803d; }
.status-failed { color: #b91c1c; }
table { border-collapse: collapse; width: 100%; margin-top: 1rem; }
th, td { border: 1px solid #ddd; padding: 0.4rem 0.6rem; text-align: left; }
th { background: #f3f4f6; }
.summary { margin-top: 1rem; font-size: 0.95rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="status-{{.Status}}">Status: {{.Status}}</p>
<div class="summary">
  Total: {{.Summary.Total}} &middot;
  Passed: {{.Summary.Passed}} &middot;
  Failed: {{.Summary.Failed}} &middot;
  Skipped: {{.Summary.Skipped}}
</div>
<table>
<tr><th>#</th><th>Section</th><th>Name</th><th>Kind</th><th>Status</th><th>Duration (ms)</th><th>Error</th><th>Screenshot</th></tr>
{{range .Steps}}<tr>
  <td>{{.Index}}</td>
  <td>{{.Section}}</td>
  <td>{{.Name}}</td>
  <td>{{.Kind}}</td>
  <td class="status-{{.Status}}">{{.Status}}</td>
  <td>{{.DurationMs}}</td>
  <td>{{.Error}}</td>
  <td>{{if .ScreenshotPath}}<a href="{{.ScreenshotPath}}">view</a>{{end}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`
