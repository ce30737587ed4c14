package tool

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// NewCalculateTool returns a tool that evaluates arithmetic expressions.
// Only numbers, +, -, *, /, parentheses and decimals are accepted; the
// expression is parsed by a small recursive-descent evaluator, never handed
// to anything that executes code.
func NewCalculateTool() *FunctionTool {
	return NewFunctionTool(
		"calculate",
		"Evaluate a math expression. Supports +, -, *, /, parentheses, and decimals.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"expression": map[string]any{
					"type":        "string",
					"description": "the math expression, e.g. '(15 + 27) * 3'",
				},
			},
			"required": []string{"expression"},
		},
		func(_ context.Context, args map[string]any) (string, error) {
			expression, _ := args["expression"].(string)

			for _, c := range expression {
				if !isAllowedExprChar(c) {
					return "Error: expression contains disallowed characters. Only numbers and +-*/.() are allowed.", nil
				}
			}

			result, err := evalExpression(expression)
			if err != nil {
				return fmt.Sprintf("Error evaluating expression: %v", err), nil
			}
			return strconv.FormatFloat(result, 'f', -1, 64), nil
		},
	)
}

func isAllowedExprChar(c rune) bool {
	return c >= '0' && c <= '9' || strings.ContainsRune("+-*/.() ", c)
}

// evalExpression evaluates an arithmetic expression with the usual
// precedence rules.
//
// Grammar:
//
//	expr   = term   { ("+" | "-") term }
//	term   = factor { ("*" | "/") factor }
//	factor = number | "-" factor | "(" expr ")"
func evalExpression(input string) (float64, error) {
	p := &exprParser{input: input}
	result, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpaces()
	if p.pos < len(p.input) {
		return 0, fmt.Errorf("unexpected character %q at position %d", p.input[p.pos], p.pos)
	}
	return result, nil
}

type exprParser struct {
	input string
	pos   int
}

func (p *exprParser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *exprParser) peek() (byte, bool) {
	p.skipSpaces()
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

func (p *exprParser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.peek()
		if !ok || (op != '+' && op != '-') {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if op == '+' {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *exprParser) parseTerm() (float64, error) {
	left, err := p.parseFactor()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.peek()
		if !ok || (op != '*' && op != '/') {
			return left, nil
		}
		p.pos++
		right, err := p.parseFactor()
		if err != nil {
			return 0, err
		}
		if op == '*' {
			left *= right
		} else {
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			left /= right
		}
	}
}

func (p *exprParser) parseFactor() (float64, error) {
	c, ok := p.peek()
	if !ok {
		return 0, fmt.Errorf("unexpected end of expression")
	}

	switch {
	case c == '-':
		p.pos++
		v, err := p.parseFactor()
		return -v, err
	case c == '(':
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if c, ok := p.peek(); !ok || c != ')' {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	default:
		return p.parseNumber()
	}
}

func (p *exprParser) parseNumber() (float64, error) {
	p.skipSpaces()
	start := p.pos
	for p.pos < len(p.input) && (p.input[p.pos] >= '0' && p.input[p.pos] <= '9' || p.input[p.pos] == '.') {
		p.pos++
	}
	if start == p.pos {
		return 0, fmt.Errorf("expected a number at position %d", start)
	}
	return strconv.ParseFloat(p.input[start:p.pos], 64)
}
