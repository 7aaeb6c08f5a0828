package tester

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nihei9/gramlab/driver"
	tspec "github.com/nihei9/gramlab/spec/test"
)

type TestResult struct {
	TestCasePath string
	Error        error
	Diffs        []*tspec.TreeDiff
}

func (r *TestResult) Passed() bool {
	return r.Error == nil
}

func (r *TestResult) String() string {
	if r.Passed() {
		return "Passed " + r.TestCasePath
	}

	const indent = "    "
	var b strings.Builder
	fmt.Fprintf(&b, "Failed %v:", r.TestCasePath)
	for _, line := range strings.Split(r.Error.Error(), "\n") {
		fmt.Fprintf(&b, "\n%v%v", indent, line)
	}
	for _, diff := range r.Diffs {
		fmt.Fprintf(&b, "\n%v%v", indent+indent, diff.Message)
		fmt.Fprintf(&b, "\n%vexpected path: %v", indent+indent+indent, diff.ExpectedPath)
		fmt.Fprintf(&b, "\n%vactual path:   %v", indent+indent+indent, diff.ActualPath)
	}
	return b.String()
}

// Summary counts passed and failed results.
type Summary struct {
	Passed int
	Failed int
}

func Summarize(rs []*TestResult) Summary {
	var s Summary
	for _, r := range rs {
		if r.Passed() {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%v passed, %v failed", s.Passed, s.Failed)
}

type TestCaseWithMetadata struct {
	TestCase *tspec.TestCase
	FilePath string
	Error    error
}

// ListTestCases reads a test case file, or every test case file under a directory in lexical
// order. Files and directories whose names start with '.' are skipped. A file that cannot be read
// or parsed still yields an entry carrying the error.
func ListTestCases(path string) []*TestCaseWithMetadata {
	fi, err := os.Stat(path)
	if err != nil {
		return []*TestCaseWithMetadata{{FilePath: path, Error: err}}
	}
	if !fi.IsDir() {
		c, err := readTestCase(path)
		return []*TestCaseWithMetadata{{TestCase: c, FilePath: path, Error: err}}
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return []*TestCaseWithMetadata{{FilePath: path, Error: err}}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		cases = append(cases, ListTestCases(filepath.Join(path, e.Name()))...)
	}
	return cases
}

func readTestCase(path string) (*tspec.TestCase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tspec.ParseTestCase(f)
}

// Tester runs test cases through a parser. Any parser works, so one set of test cases can check
// the tables of every class.
type Tester struct {
	Parser driver.Parser
	Cases  []*TestCaseWithMetadata
}

func (t *Tester) Run() []*TestResult {
	rs := make([]*TestResult, 0, len(t.Cases))
	for _, c := range t.Cases {
		r := &TestResult{
			TestCasePath: c.FilePath,
		}
		r.Diffs, r.Error = check(t.Parser, c)
		slog.Debug("ran a test case", "path", c.FilePath, "passed", r.Passed())
		rs = append(rs, r)
	}
	return rs
}

func check(p driver.Parser, c *TestCaseWithMetadata) ([]*tspec.TreeDiff, error) {
	if c.Error != nil {
		return nil, c.Error
	}

	tc := c.TestCase
	result := p.Parse(tc.Sentence)
	switch tc.Verdict {
	case tspec.VerdictAccept:
		if !result.Accepted() {
			return nil, fmt.Errorf("the sentence must be accepted, but it was rejected: %w", result.Reason)
		}
	case tspec.VerdictReject:
		if result.Accepted() {
			return nil, fmt.Errorf("the sentence must be rejected, but it was accepted")
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown verdict: %v", tc.Verdict)
	}

	if tc.Output == nil {
		return nil, nil
	}
	if result.Tree == nil {
		return nil, fmt.Errorf("parse tree was not generated")
	}
	if diffs := tspec.DiffTree(tc.Output, convertTree(result.Tree).Fill()); len(diffs) > 0 {
		return diffs, fmt.Errorf("output mismatch")
	}
	return nil, nil
}

func convertTree(n *driver.Node) *tspec.Tree {
	children := make([]*tspec.Tree, 0, len(n.Children))
	for _, c := range n.Children {
		children = append(children, convertTree(c))
	}
	return tspec.NewTree(n.KindName, children...)
}
