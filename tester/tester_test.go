package tester

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nihei9/gramlab/driver"
	"github.com/nihei9/gramlab/grammar"
	"github.com/nihei9/gramlab/spec"
	tspec "github.com/nihei9/gramlab/spec/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const grammarSrc = `
S -> aAB | bBC
A -> aA | ε
B -> bB | c
C -> cC | d
`

func genParsers(t *testing.T) map[string]driver.Parser {
	t.Helper()

	ast, err := spec.Parse(strings.NewReader(grammarSrc))
	require.NoError(t, err)
	b := grammar.GrammarBuilder{
		AST: ast,
	}
	gram, err := b.Build()
	require.NoError(t, err)

	ps := map[string]driver.Parser{}
	sets, err := grammar.ComputeSets(gram)
	require.NoError(t, err)
	ll1, err := grammar.GenLL1Table(gram, sets)
	require.NoError(t, err)
	ps[grammar.ClassLL1.String()] = driver.NewLL1Parser(ll1)
	for _, class := range []grammar.Class{grammar.ClassSLR1, grammar.ClassLALR1, grammar.ClassLR1} {
		tab, err := grammar.GenParsingTable(gram, class)
		require.NoError(t, err)
		ps[class.String()] = driver.NewLRParser(tab)
	}
	return ps
}

func TestTester_Run(t *testing.T) {
	tests := []struct {
		caption string
		testSrc string
		error   bool
	}{
		{
			caption: "an accepted sentence",
			testSrc: `
Test
---
a a c
---
accept
`,
		},
		{
			caption: "an accepted sentence and its parse tree",
			testSrc: `
Test
---
a c
---
accept
(S
    (a) (A (ε)) (B (c)))
`,
		},
		{
			caption: "_ matches any kind",
			testSrc: `
Test
---
b c d
---
accept
(S
    (b) (_ (c)) (C (_)))
`,
		},
		{
			caption: "a rejected sentence",
			testSrc: `
Test
---
a d
---
reject
`,
		},
		{
			caption: "an accepted sentence expected to be rejected",
			testSrc: `
Test
---
a c
---
reject
`,
			error: true,
		},
		{
			caption: "a rejected sentence expected to be accepted",
			testSrc: `
Test
---
a d
---
accept
`,
			error: true,
		},
		{
			caption: "a different parse tree",
			testSrc: `
Test
---
a c
---
accept
(S
    (a) (A (a)) (B (c)))
`,
			error: true,
		},
		{
			caption: "a parse tree with fewer nodes",
			testSrc: `
Test
---
a c
---
accept
(S
    (a) (B (c)))
`,
			error: true,
		},
	}
	for class, p := range genParsers(t) {
		for _, tt := range tests {
			t.Run(class+"/"+tt.caption, func(t *testing.T) {
				c, err := tspec.ParseTestCase(strings.NewReader(tt.testSrc))
				require.NoError(t, err)

				tester := &Tester{
					Parser: p,
					Cases: []*TestCaseWithMetadata{
						{
							TestCase: c,
						},
					},
				}
				rs := tester.Run()
				require.Len(t, rs, 1)
				if tt.error {
					assert.Error(t, rs[0].Error, "this test must fail, but it passed")
				} else {
					assert.NoError(t, rs[0].Error)
				}
			})
		}
	}
}

func TestListTestCases(t *testing.T) {
	dir := t.TempDir()
	write := func(name, src string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(src), 0644))
		return path
	}
	pathOK := write("ok.txt", "ok\n---\na c\n---\naccept\n")
	pathNested := write(filepath.Join("nested", "ng.txt"), "ng\n---\na d\n---\naccept\n")
	pathBroken := write("broken.txt", "broken\n---\na c\n")
	write(filepath.Join(".git", "HEAD"), "ref: refs/heads/main\n")
	write(".hidden.txt", "hidden\n---\na c\n---\naccept\n")

	cases := ListTestCases(dir)
	require.Len(t, cases, 3)

	byPath := map[string]*TestCaseWithMetadata{}
	for _, c := range cases {
		byPath[c.FilePath] = c
	}
	require.Contains(t, byPath, pathOK)
	require.Contains(t, byPath, pathNested)
	require.Contains(t, byPath, pathBroken)
	assert.NoError(t, byPath[pathOK].Error)
	assert.Equal(t, "ok", byPath[pathOK].TestCase.Description)
	assert.Error(t, byPath[pathBroken].Error)

	p := genParsers(t)[grammar.ClassLALR1.String()]
	tester := &Tester{
		Parser: p,
		Cases:  cases,
	}
	results := map[string]*TestResult{}
	for _, r := range tester.Run() {
		results[r.TestCasePath] = r
	}
	assert.Equal(t, "Passed "+pathOK, results[pathOK].String())
	assert.True(t, strings.HasPrefix(results[pathNested].String(), "Failed "+pathNested+":\n    the sentence must be accepted"), results[pathNested].String())
	assert.Error(t, results[pathBroken].Error)
	assert.Equal(t, Summary{Passed: 1, Failed: 2}, Summarize(tester.Run()))

	missing := ListTestCases(filepath.Join(dir, "missing.txt"))
	require.Len(t, missing, 1)
	assert.Error(t, missing[0].Error)
}

func TestTestResult_String(t *testing.T) {
	r := &TestResult{
		TestCasePath: "test.txt",
		Error:        assert.AnError,
		Diffs: []*tspec.TreeDiff{
			{
				ExpectedPath: "S.[0]a",
				ActualPath:   "S.[0]b",
				Message:      "unexpected kind: expected 'a' but got 'b'",
			},
		},
	}
	want := "Failed test.txt:\n    " + assert.AnError.Error() + "\n" +
		"        unexpected kind: expected 'a' but got 'b'\n" +
		"            expected path: S.[0]a\n" +
		"            actual path:   S.[0]b"
	assert.Equal(t, want, r.String())
}

func TestSummarize(t *testing.T) {
	s := Summarize([]*TestResult{
		{TestCasePath: "a.txt"},
		{TestCasePath: "b.txt", Error: assert.AnError},
		{TestCasePath: "c.txt"},
	})
	assert.Equal(t, Summary{Passed: 2, Failed: 1}, s)
	assert.Equal(t, "2 passed, 1 failed", s.String())
	assert.Equal(t, Summary{}, Summarize(nil))
}
