package test

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"

	"github.com/nihei9/gramlab/spec"
	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
)

type TreeDiff struct {
	ExpectedPath string
	ActualPath   string
	Message      string
}

func newTreeDiff(expected, actual *Tree, message string) *TreeDiff {
	return &TreeDiff{
		ExpectedPath: expected.path(),
		ActualPath:   actual.path(),
		Message:      message,
	}
}

// Tree is an expected parse tree. A leaf stands for a terminal or ε.
type Tree struct {
	Parent   *Tree
	Offset   int
	Kind     string
	Children []*Tree
}

func NewTree(kind string, children ...*Tree) *Tree {
	return &Tree{
		Kind:     kind,
		Children: children,
	}
}

func (t *Tree) Fill() *Tree {
	for i, c := range t.Children {
		c.Parent = t
		c.Offset = i
		c.Fill()
	}
	return t
}

func (t *Tree) path() string {
	if t.Parent == nil {
		return t.Kind
	}
	return fmt.Sprintf("%v.[%v]%v", t.Parent.path(), t.Offset, t.Kind)
}

func (t *Tree) Format() []byte {
	var b bytes.Buffer
	t.format(&b, 0)
	return b.Bytes()
}

func (t *Tree) format(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString("    ")
	}
	buf.WriteString("(")
	buf.WriteString(t.Kind)
	if len(t.Children) > 0 {
		buf.WriteString("\n")
		for i, c := range t.Children {
			c.format(buf, depth+1)
			if i < len(t.Children)-1 {
				buf.WriteString("\n")
			}
		}
	}
	buf.WriteString(")")
}

func DiffTree(expected, actual *Tree) []*TreeDiff {
	if expected == nil && actual == nil {
		return nil
	}
	// _ matches any symbols.
	if expected.Kind != "_" && actual.Kind != expected.Kind {
		msg := fmt.Sprintf("unexpected kind: expected '%v' but got '%v'", expected.Kind, actual.Kind)
		return []*TreeDiff{
			newTreeDiff(expected, actual, msg),
		}
	}
	if len(actual.Children) != len(expected.Children) {
		msg := fmt.Sprintf("unexpected node count: expected %v but got %v", len(expected.Children), len(actual.Children))
		return []*TreeDiff{
			newTreeDiff(expected, actual, msg),
		}
	}
	var diffs []*TreeDiff
	for i, exp := range expected.Children {
		if ds := DiffTree(exp, actual.Children[i]); len(ds) > 0 {
			diffs = append(diffs, ds...)
		}
	}
	return diffs
}

type Verdict string

const (
	VerdictAccept = Verdict("accept")
	VerdictReject = Verdict("reject")
)

// TestCase is a sentence and what a parser must do with it. Output is nil when the test case
// doesn't give a parse tree.
type TestCase struct {
	Description string
	Sentence    []string
	Verdict     Verdict
	Output      *Tree
}

// ParseTestCase reads a test case. A test case consists of a caption, a sentence and a verdict
// separated by `---` lines. The verdict is `accept` or `reject`, and an accepting verdict may be
// followed by the expected parse tree in the form of `(S (a) (A (ε)))`.
func ParseTestCase(r io.Reader) (*TestCase, error) {
	parts, err := splitIntoParts(r)
	if err != nil {
		return nil, err
	}
	if len(parts) != 3 {
		return nil, fmt.Errorf("too many or too few part delimiters: a test case consists of just three parts: %v parts found", len(parts))
	}

	lineOffset := parts[0].lineCount + parts[1].lineCount + 2
	verdict, verdictLines, rest := splitVerdict(string(parts[2].buf))
	switch verdict {
	case VerdictAccept, VerdictReject:
	default:
		return nil, fmt.Errorf("%v:1: a verdict must be accept or reject: %v", lineOffset+verdictLines, verdict)
	}

	var tree *Tree
	if strings.TrimSpace(rest) != "" {
		if verdict == VerdictReject {
			return nil, fmt.Errorf("%v:1: a rejected sentence cannot have a parse tree", lineOffset+verdictLines)
		}
		tp := &treeParser{
			lineOffset: lineOffset + verdictLines,
		}
		tree, err = tp.parseTree(strings.NewReader(rest))
		if err != nil {
			return nil, err
		}
	}

	return &TestCase{
		Description: strings.TrimSpace(string(parts[0].buf)),
		Sentence:    spec.SplitSentence(string(parts[1].buf)),
		Verdict:     verdict,
		Output:      tree,
	}, nil
}

// splitVerdict returns the first non-blank line of a part as a verdict, the number of lines up
// to the verdict, and the lines following it.
func splitVerdict(s string) (Verdict, int, string) {
	lineCount := 0
	for {
		line, rest, found := strings.Cut(s, "\n")
		lineCount++
		if strings.TrimSpace(line) != "" || !found {
			return Verdict(strings.TrimSpace(line)), lineCount, rest
		}
		s = rest
	}
}

type testCasePart struct {
	buf       []byte
	lineCount int
}

func splitIntoParts(r io.Reader) ([]*testCasePart, error) {
	var bufs []*testCasePart
	s := bufio.NewScanner(r)
	for {
		buf, lineCount, err := readPart(s)
		if err != nil {
			return nil, err
		}
		if buf == nil {
			break
		}
		bufs = append(bufs, &testCasePart{
			buf:       buf,
			lineCount: lineCount,
		})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return bufs, nil
}

var reDelim = regexp.MustCompile(`^\s*---+\s*$`)

func readPart(s *bufio.Scanner) ([]byte, int, error) {
	if !s.Scan() {
		return nil, 0, s.Err()
	}
	buf := &bytes.Buffer{}
	line := s.Bytes()
	if reDelim.Match(line) {
		// Return an empty slice because (*bytes.Buffer).Bytes() returns nil if we have never written data.
		return []byte{}, 0, nil
	}
	buf.Write(line)
	lineCount := 1
	for s.Scan() {
		line := s.Bytes()
		if reDelim.Match(line) {
			return buf.Bytes(), lineCount, nil
		}
		buf.WriteString("\n")
		buf.Write(line)
		lineCount++
	}
	if err := s.Err(); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), lineCount, nil
}

var treeLexEntries = []*mlspec.LexEntry{
	{
		Kind:    "white_space",
		Pattern: `[\u{0009}\u{000A}\u{000D}\u{0020}]+`,
	},
	{
		Kind:    "l_paren",
		Pattern: `\(`,
	},
	{
		Kind:    "r_paren",
		Pattern: `\)`,
	},
	{
		Kind:    "kind_name",
		Pattern: `[^\u{0009}\u{000A}\u{000D}\u{0020}\u{0028}\u{0029}]+`,
	},
}

var (
	treeLexSpec     *mlspec.CompiledLexSpec
	treeLexSpecErr  error
	treeLexSpecOnce sync.Once
)

func compiledTreeLexSpec() (*mlspec.CompiledLexSpec, error) {
	treeLexSpecOnce.Do(func() {
		var cErrs []*mlcompiler.CompileError
		treeLexSpec, treeLexSpecErr, cErrs = mlcompiler.Compile(&mlspec.LexSpec{
			Name:    "tree",
			Entries: treeLexEntries,
		}, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
		if treeLexSpecErr != nil && len(cErrs) > 0 {
			treeLexSpecErr = fmt.Errorf("%v: %v", cErrs[0].Kind, cErrs[0].Cause)
		}
	})
	return treeLexSpec, treeLexSpecErr
}

type treeToken struct {
	kind string
	text string
	row  int
	col  int
}

type treeParser struct {
	lineOffset int
	toks       []*treeToken
	pos        int
}

func (tp *treeParser) parseTree(src io.Reader) (*Tree, error) {
	err := tp.lex(src)
	if err != nil {
		return nil, err
	}
	t, err := tp.parseNode()
	if err != nil {
		return nil, err
	}
	if tok := tp.peek(); tok.kind != "eof" {
		return nil, tp.errorf(tok, "unexpected token after a tree: %v", tok.text)
	}
	return t.Fill(), nil
}

func (tp *treeParser) lex(src io.Reader) error {
	s, err := compiledTreeLexSpec()
	if err != nil {
		return err
	}
	d, err := mldriver.NewLexer(mldriver.NewLexSpec(s), src)
	if err != nil {
		return err
	}
	for {
		tok, err := d.Next()
		if err != nil {
			return err
		}
		if tok.EOF {
			tp.toks = append(tp.toks, &treeToken{
				kind: "eof",
				row:  tok.Row,
				col:  tok.Col,
			})
			return nil
		}
		t := &treeToken{
			kind: string(s.KindNames[tok.KindID]),
			text: string(tok.Lexeme),
			row:  tok.Row,
			col:  tok.Col,
		}
		if tok.Invalid {
			return tp.errorf(t, "invalid token: %v", t.text)
		}
		if t.kind == "white_space" {
			continue
		}
		tp.toks = append(tp.toks, t)
	}
}

// parseNode parses `(kind child...)`.
func (tp *treeParser) parseNode() (*Tree, error) {
	tok := tp.next()
	if tok.kind != "l_paren" {
		return nil, tp.errorf(tok, "expected (, got %v", tp.describe(tok))
	}
	tok = tp.next()
	if tok.kind != "kind_name" {
		return nil, tp.errorf(tok, "expected a kind name, got %v", tp.describe(tok))
	}
	kind := tok.text

	var children []*Tree
	for {
		tok := tp.peek()
		switch tok.kind {
		case "r_paren":
			tp.next()
			return NewTree(kind, children...), nil
		case "l_paren":
			c, err := tp.parseNode()
			if err != nil {
				return nil, err
			}
			children = append(children, c)
		default:
			return nil, tp.errorf(tok, "expected ( or ), got %v", tp.describe(tok))
		}
	}
}

func (tp *treeParser) peek() *treeToken {
	return tp.toks[tp.pos]
}

func (tp *treeParser) next() *treeToken {
	tok := tp.toks[tp.pos]
	if tok.kind != "eof" {
		tp.pos++
	}
	return tok
}

func (tp *treeParser) describe(tok *treeToken) string {
	if tok.kind == "eof" {
		return "<eof>"
	}
	return tok.text
}

func (tp *treeParser) errorf(tok *treeToken, format string, a ...interface{}) error {
	return fmt.Errorf("%v:%v: %v", tp.lineOffset+tok.row+1, tok.col+1, fmt.Sprintf(format, a...))
}
