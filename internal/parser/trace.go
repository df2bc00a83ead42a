package parser

import (
	"strings"

	"toyc/internal/trace"
	"toyc/internal/token"
)

// enter pushes rule onto the parse stack and records the step. exit pops it.
// The stack description in each step reflects the live rule nesting at that
// instant, innermost rule last.
func (p *Parser) enter(rule string) {
	p.stack = append(p.stack, rule)
	p.traceRule(rule, "enter")
}

func (p *Parser) exit(rule string) {
	p.traceRule(rule, "exit")
	if len(p.stack) > 0 {
		p.stack = p.stack[:len(p.stack)-1]
	}
}

// traceStep records a token-level action (consume, match) under the current
// rule.
func (p *Parser) traceStep(action string, tok token.Token) {
	if !p.opts.Trace.Enabled() {
		return
	}
	rule := "program"
	if len(p.stack) > 0 {
		rule = p.stack[len(p.stack)-1]
	}
	p.opts.Trace.StepAt(trace.PhaseParsing, int(tok.Span.Start),
		action+" "+tok.Kind.String(),
		map[string]string{
			"rule":          rule,
			"action":        action,
			"current_token": describeToken(tok),
			"lookahead":     describeToken(p.cur()),
			"stack":         p.stackString(),
		})
}

func (p *Parser) traceRule(rule, action string) {
	if !p.opts.Trace.Enabled() {
		return
	}
	p.opts.Trace.StepAt(trace.PhaseParsing, int(p.cur().Span.Start),
		action+" "+rule,
		map[string]string{
			"rule":          rule,
			"action":        action,
			"current_token": describeToken(p.cur()),
			"lookahead":     describeToken(p.peek()),
			"stack":         p.stackString(),
		})
}

func (p *Parser) stackString() string {
	return strings.Join(p.stack, " > ")
}

func describeToken(tok token.Token) string {
	if tok.Text == "" {
		return tok.Kind.String()
	}
	return tok.Kind.String() + " '" + tok.Text + "'"
}
