package spec

import (
	"fmt"
	"io"
	"strings"
	"sync"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
)

type tokenKind string

const (
	tokenKindText    = tokenKind("text")
	tokenKindDash    = tokenKind("dash")
	tokenKindArrow   = tokenKind("->")
	tokenKindColon   = tokenKind(":")
	tokenKindOr      = tokenKind("|")
	tokenKindSpace   = tokenKind("white space")
	tokenKindNewline = tokenKind("newline")
	tokenKindEOF     = tokenKind("eof")
	tokenKindInvalid = tokenKind("invalid")
)

type Position struct {
	Row int
	Col int
}

func newPosition(row, col int) Position {
	return Position{
		Row: row,
		Col: col,
	}
}

type token struct {
	kind tokenKind
	text string
	pos  Position
}

// The grammar text is line oriented, so white spaces and newlines are tokens as well.
// A text token never contains ':', '|' or '-' so that separators can be found even
// when a production is written without spaces, like `S->aB|c`.
var grammarLexEntries = []*mlspec.LexEntry{
	{
		Kind:    "white_space",
		Pattern: `[\u{0009}\u{0020}]+`,
	},
	{
		Kind:    "newline",
		Pattern: `\u{000D}\u{000A}|\u{000A}|\u{000D}`,
	},
	{
		Kind:    "arrow",
		Pattern: `\u{002D}>`,
	},
	{
		Kind:    "colon",
		Pattern: `:`,
	},
	{
		Kind:    "or",
		Pattern: `\|`,
	},
	{
		Kind:    "dash",
		Pattern: `\u{002D}`,
	},
	{
		Kind:    "text",
		Pattern: `[^\u{0009}\u{0020}\u{000A}\u{000D}\u{003A}\u{007C}\u{002D}]+`,
	},
}

var (
	grammarLexSpec     *mlspec.CompiledLexSpec
	grammarLexSpecErr  error
	grammarLexSpecOnce sync.Once
)

func compiledGrammarLexSpec() (*mlspec.CompiledLexSpec, error) {
	grammarLexSpecOnce.Do(func() {
		grammarLexSpec, grammarLexSpecErr = compileLexSpec("grammar_text", grammarLexEntries)
	})
	return grammarLexSpec, grammarLexSpecErr
}

func compileLexSpec(name string, entries []*mlspec.LexEntry) (*mlspec.CompiledLexSpec, error) {
	clspec, err, cErrs := mlcompiler.Compile(&mlspec.LexSpec{
		Name:    name,
		Entries: entries,
	}, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			writeCompileError(&b, cErrs[0])
			for _, cerr := range cErrs[1:] {
				fmt.Fprintf(&b, "\n")
				writeCompileError(&b, cerr)
			}
			return nil, fmt.Errorf("%v", b.String())
		}
		return nil, err
	}
	return clspec, nil
}

func writeCompileError(w io.Writer, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	fmt.Fprintf(w, "%v: %v", cErr.Kind, cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}

type lexer struct {
	s   *mlspec.CompiledLexSpec
	d   *mldriver.Lexer
	eof bool
}

func newLexer(src io.Reader) (*lexer, error) {
	s, err := compiledGrammarLexSpec()
	if err != nil {
		return nil, err
	}
	d, err := mldriver.NewLexer(mldriver.NewLexSpec(s), src)
	if err != nil {
		return nil, err
	}
	return &lexer{
		s: s,
		d: d,
	}, nil
}

func (l *lexer) next() (*token, error) {
	tok, err := l.d.Next()
	if err != nil {
		return nil, err
	}
	pos := newPosition(tok.Row+1, tok.Col+1)
	if tok.EOF {
		return &token{
			kind: tokenKindEOF,
			pos:  pos,
		}, nil
	}
	text := string(tok.Lexeme)
	if tok.Invalid {
		return &token{
			kind: tokenKindInvalid,
			text: text,
			pos:  pos,
		}, nil
	}

	var kind tokenKind
	switch l.s.KindNames[tok.KindID] {
	case "white_space":
		kind = tokenKindSpace
	case "newline":
		kind = tokenKindNewline
	case "arrow":
		kind = tokenKindArrow
	case "colon":
		kind = tokenKindColon
	case "or":
		kind = tokenKindOr
	case "dash":
		kind = tokenKindDash
	case "text":
		kind = tokenKindText
	default:
		kind = tokenKindInvalid
	}
	return &token{
		kind: kind,
		text: text,
		pos:  pos,
	}, nil
}

// nextLine returns the tokens of the next line without its newline. The second result
// is false when the source has no more lines.
func (l *lexer) nextLine() ([]*token, bool, error) {
	if l.eof {
		return nil, false, nil
	}
	var toks []*token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, false, err
		}
		switch tok.kind {
		case tokenKindEOF:
			l.eof = true
			return toks, len(toks) > 0, nil
		case tokenKindNewline:
			return toks, true, nil
		}
		toks = append(toks, tok)
	}
}
