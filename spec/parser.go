package spec

import (
	"bytes"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	verr "github.com/nihei9/gramlab/error"
)

type RootNode struct {
	Productions []*ProductionNode
}

type ProductionNode struct {
	LHS string
	RHS []*AlternativeNode
	Pos Position
}

type AlternativeNode struct {
	Elements []*ElementNode
	Pos      Position
}

type ElementNode struct {
	ID          string
	NonTerminal bool
	Pos         Position
}

const (
	epsilonText = "ε"
	primeRune   = '\''
)

var utf8BOM = []byte("\xef\xbb\xbf")

// Parse reads productions written one per line as `A : α | β` or `A -> α | β`.
// Blank lines and lines starting with '#' are ignored.
func Parse(src io.Reader) (*RootNode, error) {
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	b = bytes.TrimPrefix(b, utf8BOM)

	p, err := newParser(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	return p.parse()
}

type parser struct {
	lex  *lexer
	errs verr.SpecErrors
}

func newParser(src io.Reader) (*parser, error) {
	lex, err := newLexer(src)
	if err != nil {
		return nil, err
	}
	return &parser{
		lex: lex,
	}, nil
}

func (p *parser) parse() (*RootNode, error) {
	root := &RootNode{}
	for {
		toks, ok, err := p.lex.nextLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		prod := p.parseProduction(trimSpaceTokens(toks))
		if prod == nil {
			continue
		}
		root.Productions = append(root.Productions, prod)
	}
	if len(p.errs) > 0 {
		return nil, p.errs
	}
	if len(root.Productions) == 0 {
		return nil, &verr.SpecError{
			Cause: synErrNoProduction,
		}
	}
	return root, nil
}

func (p *parser) parseProduction(toks []*token) *ProductionNode {
	if len(toks) == 0 {
		return nil
	}
	if strings.HasPrefix(toks[0].text, "#") {
		return nil
	}
	for _, tok := range toks {
		if tok.kind == tokenKindInvalid {
			p.errs = append(p.errs, &verr.SpecError{
				Cause:  synErrInvalidToken,
				Detail: tok.text,
				Row:    tok.pos.Row,
				Col:    tok.pos.Col,
			})
			return nil
		}
	}

	sep := findSeparator(toks)
	if sep < 0 {
		p.errs = append(p.errs, &verr.SpecError{
			Cause: synErrNoSeparator,
			Row:   toks[0].pos.Row,
			Col:   toks[0].pos.Col,
		})
		return nil
	}

	lhs := strings.TrimSpace(joinTokens(toks[:sep]))
	if lhs == "" {
		p.errs = append(p.errs, &verr.SpecError{
			Cause: synErrNoProductionName,
			Row:   toks[0].pos.Row,
			Col:   toks[0].pos.Col,
		})
		return nil
	}
	if !IsNonTerminalName(lhs) {
		p.errs = append(p.errs, &verr.SpecError{
			Cause:  synErrInvalidLHS,
			Detail: lhs,
			Row:    toks[0].pos.Row,
			Col:    toks[0].pos.Col,
		})
		return nil
	}

	prod := &ProductionNode{
		LHS: lhs,
		Pos: toks[0].pos,
	}
	for _, altToks := range splitAlternatives(toks[sep], toks[sep+1:]) {
		prod.RHS = append(prod.RHS, parseAlternative(altToks.head, trimSpaceTokens(altToks.toks)))
	}
	return prod
}

// findSeparator returns the index of the token separating the LHS from the alternatives.
// An arrow takes precedence over a colon wherever it appears in a line.
func findSeparator(toks []*token) int {
	for i, tok := range toks {
		if tok.kind == tokenKindArrow {
			return i
		}
	}
	for i, tok := range toks {
		if tok.kind == tokenKindColon {
			return i
		}
	}
	return -1
}

type alternativeTokens struct {
	head *token
	toks []*token
}

func splitAlternatives(sep *token, toks []*token) []*alternativeTokens {
	alts := []*alternativeTokens{
		{
			head: sep,
		},
	}
	for _, tok := range toks {
		if tok.kind == tokenKindOr {
			alts = append(alts, &alternativeTokens{
				head: tok,
			})
			continue
		}
		alt := alts[len(alts)-1]
		alt.toks = append(alt.toks, tok)
	}
	return alts
}

func parseAlternative(head *token, toks []*token) *AlternativeNode {
	alt := &AlternativeNode{
		Elements: []*ElementNode{},
		Pos:      head.pos,
	}
	if len(toks) > 0 {
		alt.Pos = toks[0].pos
	}
	text := joinTokens(toks)
	if text == "" || text == epsilonText {
		return alt
	}
	for _, sym := range SplitSymbols(text) {
		alt.Elements = append(alt.Elements, &ElementNode{
			ID:          sym,
			NonTerminal: IsNonTerminalName(sym),
			Pos:         alt.Pos,
		})
	}
	return alt
}

func joinTokens(toks []*token) string {
	var b strings.Builder
	for _, tok := range toks {
		b.WriteString(tok.text)
	}
	return b.String()
}

func trimSpaceTokens(toks []*token) []*token {
	for len(toks) > 0 && toks[0].kind == tokenKindSpace {
		toks = toks[1:]
	}
	for len(toks) > 0 && toks[len(toks)-1].kind == tokenKindSpace {
		toks = toks[:len(toks)-1]
	}
	return toks
}

// SplitSymbols splits the text of one alternative into symbols. Symbols are separated by
// white spaces when the text contains any. Otherwise, a text consisting of digits only or of
// lowercase letters and other non-letter characters is a single symbol (e.g. `id`, `num`),
// and any other text is split into characters where an uppercase letter absorbs the primes
// following it (e.g. `aS'b` is `a`, `S'`, `b`).
func SplitSymbols(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if strings.ContainsAny(text, " \t") {
		return strings.Fields(text)
	}
	if isLowerText(text) || isDigitText(text) {
		return []string{text}
	}

	var syms []string
	rs := []rune(text)
	for i := 0; i < len(rs); {
		if unicode.IsUpper(rs[i]) {
			j := i + 1
			for j < len(rs) && rs[j] == primeRune {
				j++
			}
			syms = append(syms, string(rs[i:j]))
			i = j
			continue
		}
		syms = append(syms, string(rs[i]))
		i++
	}
	return syms
}

// IsNonTerminalName reports whether a symbol name denotes a nonterminal: an uppercase letter
// followed by uppercase letters or primes (e.g. `S`, `EP`, `E'`).
func IsNonTerminalName(name string) bool {
	if name == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(name)
	if !unicode.IsUpper(r) {
		return false
	}
	for _, r := range name {
		if !unicode.IsUpper(r) && r != primeRune {
			return false
		}
	}
	return true
}

func isLowerText(text string) bool {
	cased := false
	for _, r := range text {
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsLower(r) {
			cased = true
		}
	}
	return cased
}

func isDigitText(text string) bool {
	for _, r := range text {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
