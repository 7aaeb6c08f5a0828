package test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffTree(t *testing.T) {
	tests := []struct {
		t1        *Tree
		t2        *Tree
		different bool
	}{
		{
			t1: NewTree("a"),
			t2: NewTree("a"),
		},
		{
			t1: NewTree("a",
				NewTree("b"),
				NewTree("c"),
			),
			t2: NewTree("a",
				NewTree("b"),
				NewTree("c"),
			),
		},
		{
			t1: NewTree("a",
				NewTree("b",
					NewTree("c"),
				),
				NewTree("d",
					NewTree("ε"),
				),
			),
			t2: NewTree("a",
				NewTree("b",
					NewTree("c"),
				),
				NewTree("d",
					NewTree("ε"),
				),
			),
		},
		// _ matches any kind.
		{
			t1: NewTree("a",
				NewTree("_"),
			),
			t2: NewTree("a",
				NewTree("b"),
			),
		},
		{
			t1:        NewTree("a"),
			t2:        NewTree("b"),
			different: true,
		},
		{
			t1: NewTree("a",
				NewTree("b"),
			),
			t2:        NewTree("a"),
			different: true,
		},
		{
			t1: NewTree("a"),
			t2: NewTree("a",
				NewTree("b"),
			),
			different: true,
		},
		{
			t1: NewTree("a",
				NewTree("b",
					NewTree("c"),
				),
			),
			t2: NewTree("a",
				NewTree("b",
					NewTree("d"),
				),
			),
			different: true,
		},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v", i), func(t *testing.T) {
			diffs := DiffTree(tt.t1.Fill(), tt.t2.Fill())
			if tt.different && len(diffs) == 0 {
				t.Fatalf("unexpected result")
			} else if !tt.different && len(diffs) > 0 {
				t.Fatalf("unexpected result: %v", diffs[0].Message)
			}
		})
	}
}

func TestDiffTree_Path(t *testing.T) {
	expected := NewTree("S",
		NewTree("a"),
		NewTree("A",
			NewTree("ε"),
		),
	).Fill()
	actual := NewTree("S",
		NewTree("a"),
		NewTree("A",
			NewTree("b"),
		),
	).Fill()

	diffs := DiffTree(expected, actual)
	require.Len(t, diffs, 1)
	assert.Equal(t, "S.[1]A.[0]ε", diffs[0].ExpectedPath)
	assert.Equal(t, "S.[1]A.[0]b", diffs[0].ActualPath)
	assert.Equal(t, "unexpected kind: expected 'ε' but got 'b'", diffs[0].Message)
}

func TestTree_Format(t *testing.T) {
	tree := NewTree("S",
		NewTree("a"),
		NewTree("A",
			NewTree("ε"),
		),
	)
	assert.Equal(t, "(S\n    (a)\n    (A\n        (ε)))", string(tree.Format()))
}

func TestParseTestCase(t *testing.T) {
	tests := []struct {
		caption  string
		src      string
		tc       *TestCase
		parseErr bool
	}{
		{
			caption: "an accepted sentence",
			src: `test
---
a c
---
accept
`,
			tc: &TestCase{
				Description: "test",
				Sentence:    []string{"a", "c"},
				Verdict:     VerdictAccept,
			},
		},
		{
			caption: "a rejected sentence written without spaces",
			src: `test
---
ad
---
reject
`,
			tc: &TestCase{
				Description: "test",
				Sentence:    []string{"a", "d"},
				Verdict:     VerdictReject,
			},
		},
		{
			caption: "an accepted sentence and its parse tree",
			src: `test
---
a c
---
accept
(S
    (a) (A (ε)) (B (c)))
`,
			tc: &TestCase{
				Description: "test",
				Sentence:    []string{"a", "c"},
				Verdict:     VerdictAccept,
				Output: NewTree("S",
					NewTree("a"),
					NewTree("A",
						NewTree("ε"),
					),
					NewTree("B",
						NewTree("c"),
					),
				).Fill(),
			},
		},
		{
			caption: "blank lines around parts",
			src: `
test

---

a

---

accept

`,
			tc: &TestCase{
				Description: "test",
				Sentence:    []string{"a"},
				Verdict:     VerdictAccept,
			},
		},
		{
			caption: "the length of a part delimiter may be greater than 3",
			src: `test
-----
a
-----
accept
`,
			tc: &TestCase{
				Description: "test",
				Sentence:    []string{"a"},
				Verdict:     VerdictAccept,
			},
		},
		{
			caption: "the sentence part may be empty",
			src: `test
---
---
reject
`,
			tc: &TestCase{
				Description: "test",
				Sentence:    []string{},
				Verdict:     VerdictReject,
			},
		},
		{
			caption:  "an empty source",
			src:      ``,
			parseErr: true,
		},
		{
			caption: "the verdict part is missing",
			src: `test
---
a
---
`,
			parseErr: true,
		},
		{
			caption: "too short delimiters",
			src: `test
--
a
--
accept
`,
			parseErr: true,
		},
		{
			caption: "an unknown verdict",
			src: `test
---
a
---
maybe
`,
			parseErr: true,
		},
		{
			caption: "a rejected sentence cannot have a tree",
			src: `test
---
a
---
reject
(S (a))
`,
			parseErr: true,
		},
		{
			caption: "an unclosed tree",
			src: `test
---
a
---
accept
(S (a)
`,
			parseErr: true,
		},
		{
			caption: "a tree without a kind name",
			src: `test
---
a
---
accept
()
`,
			parseErr: true,
		},
		{
			caption: "two trees",
			src: `test
---
a
---
accept
(S) (S)
`,
			parseErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			tc, err := ParseTestCase(strings.NewReader(tt.src))
			if tt.parseErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			testTestCase(t, tt.tc, tc)
		})
	}
}

func TestParseTestCase_ErrorPosition(t *testing.T) {
	src := `test
---
a
---
accept
(S
    ())
`
	_, err := ParseTestCase(strings.NewReader(src))
	require.Error(t, err)
	assert.Equal(t, "7:6: expected a kind name, got )", err.Error())
}

func testTestCase(t *testing.T, expected, actual *TestCase) {
	t.Helper()

	assert.Equal(t, expected.Description, actual.Description)
	assert.Equal(t, expected.Sentence, actual.Sentence)
	assert.Equal(t, expected.Verdict, actual.Verdict)
	if expected.Output == nil {
		assert.Nil(t, actual.Output)
		return
	}
	require.NotNil(t, actual.Output)
	assert.Empty(t, DiffTree(expected.Output, actual.Output))
}
