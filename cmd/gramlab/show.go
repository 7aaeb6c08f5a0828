package main

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/nihei9/gramlab/grammar"
	spec "github.com/nihei9/gramlab/spec/grammar"
)

const reportTemplate = `# {{ printClass .Class }}

{{ printConflictSummary . }}

# Terminals

{{ range .Terminals -}}
{{ printTerminal . }}
{{ end }}
# Non-terminals

{{ range .NonTerminals -}}
{{ printNonTerminal . }}
{{ end }}
# Productions

{{ range .Productions -}}
{{ printProduction . }}
{{ end }}
# States
{{ range .States }}
## State {{ .Number }}

{{ range .Kernel -}}
{{ printItem . }}
{{ end }}
{{ range .Shift -}}
{{ printShift . }}
{{ end -}}
{{ if .Accept -}}
{{ printAccept }}
{{ end -}}
{{ range .Reduce -}}
{{ printReduce . }}
{{ end -}}
{{ range .GoTo -}}
{{ printGoTo . }}
{{ end }}
{{ range .SRConflict -}}
{{ printSRConflict . }}
{{ end -}}
{{ range .RRConflict -}}
{{ printRRConflict . }}
{{ end -}}
{{ end }}`

// writeDescription prints a report in a readable format.
func writeDescription(w io.Writer, report *spec.Report) error {
	prods := map[int]*spec.Production{}
	for _, prod := range report.Productions {
		prods[prod.Number] = prod
	}

	fns := template.FuncMap{
		"printClass": func(class string) string {
			c, err := grammar.ParseClass(class)
			if err != nil {
				return class
			}
			return c.Title()
		},
		"printConflictSummary": func(report *spec.Report) string {
			var srCount int
			var rrCount int
			for _, s := range report.States {
				srCount += len(s.SRConflict)
				rrCount += len(s.RRConflict)
			}
			if srCount == 0 && rrCount == 0 {
				return "No conflict"
			}
			var b strings.Builder
			if srCount > 0 {
				fmt.Fprintf(&b, "%v shift/reduce\n", countConflicts(srCount))
			}
			if rrCount > 0 {
				fmt.Fprintf(&b, "%v reduce/reduce\n", countConflicts(rrCount))
			}
			return strings.TrimSuffix(b.String(), "\n")
		},
		"printTerminal": func(term *spec.Terminal) string {
			return fmt.Sprintf("%4v %v", term.Number, term.Name)
		},
		"printNonTerminal": func(nonTerm *spec.NonTerminal) string {
			return fmt.Sprintf("%4v %v", nonTerm.Number, nonTerm.Name)
		},
		"printProduction": func(prod *spec.Production) string {
			var b strings.Builder
			fmt.Fprintf(&b, "%v →", prod.LHS)
			if len(prod.RHS) > 0 {
				for _, e := range prod.RHS {
					fmt.Fprintf(&b, " %v", e)
				}
			} else {
				fmt.Fprintf(&b, " ε")
			}
			return fmt.Sprintf("%4v %v", prod.Number, b.String())
		},
		"printItem": func(item *spec.Item) string {
			prod, ok := prods[item.Production]
			if !ok {
				return fmt.Sprintf("%4v ?", item.Production)
			}

			var b strings.Builder
			fmt.Fprintf(&b, "%v →", prod.LHS)
			for i, e := range prod.RHS {
				if i == item.Dot {
					fmt.Fprintf(&b, " ・")
				}
				fmt.Fprintf(&b, " %v", e)
			}
			if item.Dot >= len(prod.RHS) {
				fmt.Fprintf(&b, " ・")
			}
			if len(item.LookAhead) > 0 {
				fmt.Fprintf(&b, ", %v", strings.Join(item.LookAhead, "/"))
			}

			return fmt.Sprintf("%4v %v", prod.Number, b.String())
		},
		"printShift": func(tran *spec.Transition) string {
			return fmt.Sprintf("shift  %4v on %v", tran.State, tran.Symbol)
		},
		"printAccept": func() string {
			return fmt.Sprintf("accept      on %v", grammar.SymbolEOF)
		},
		"printReduce": func(reduce *spec.Reduce) string {
			return fmt.Sprintf("reduce %4v on %v", reduce.Production, strings.Join(reduce.LookAhead, ", "))
		},
		"printGoTo": func(tran *spec.Transition) string {
			return fmt.Sprintf("goto   %4v on %v", tran.State, tran.Symbol)
		},
		"printSRConflict": func(sr *spec.SRConflict) string {
			return fmt.Sprintf("shift/reduce conflict (shift %v, reduce %v) on %v", sr.State, sr.Production, sr.Symbol)
		},
		"printRRConflict": func(rr *spec.RRConflict) string {
			return fmt.Sprintf("reduce/reduce conflict (%v, %v) on %v", rr.Production1, rr.Production2, rr.Symbol)
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(reportTemplate)
	if err != nil {
		return err
	}

	err = tmpl.Execute(w, report)
	if err != nil {
		return err
	}

	return nil
}
