package cpu

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var (
	_char_literal = regexp.MustCompile(`'\\?[^']'`)
	_paren_expr   = regexp.MustCompile(`\$\([^\$]*\)`)
)

// Escapes permitted in character literals.
var _char_escapes = map[string]byte{
	`\\`: '\\',
	`\n`: '\n',
	`\r`: '\r',
	`\t`: '\t',
	`\e`: 0x1b,
}

// number parses an integer word. Any base prefix accepted by strconv is
// allowed, a leading '~' inverts the bits.
func number(word string) (value uint32, err error) {
	text, invert := strings.CutPrefix(word, "~")

	v64, perr := strconv.ParseInt(text, 0, 64)
	if perr != nil || v64 > math.MaxUint32 || v64 < math.MinInt32 {
		err = ErrParseNumber(word)
		return
	}

	value = uint32(v64)
	if invert {
		value = ^value
	}

	return
}

// expandChars replaces 'c' literals with their decimal value.
func expandChars(line string) string {
	return _char_literal.ReplaceAllStringFunc(line, func(quoted string) string {
		body := quoted[1 : len(quoted)-1]
		if len(body) == 1 {
			return strconv.Itoa(int(body[0]))
		}
		if ch, ok := _char_escapes[body]; ok {
			return strconv.Itoa(int(ch))
		}
		return quoted
	})
}

// evalExpr evaluates a starlark expression with the integer equates as
// globals.
func (asm *Assembler) evalExpr(expr string) (value uint32, err error) {
	globals := starlark.StringDict{}
	for name, text := range asm.Equate {
		// Registers and other non-integer equates are not visible.
		v, nerr := number(text)
		if nerr == nil {
			globals[name] = starlark.MakeInt64(int64(v))
		}
	}

	thread := &starlark.Thread{Name: "expr"}
	result, err := starlark.EvalOptions(&syntax.FileOptions{}, thread, "expr", expr, globals)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}

	num, ok := result.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}

	v64, ok := num.Int64()
	if !ok || v64 > math.MaxUint32 || v64 < math.MinInt32 {
		err = ErrParseExpression(expr)
		return
	}

	value = uint32(v64)
	return
}

// expandExprs replaces every $(expr) in line with its hexadecimal value.
func (asm *Assembler) expandExprs(line string) (expanded string, err error) {
	expanded = _paren_expr.ReplaceAllStringFunc(line, func(match string) string {
		value, eerr := asm.evalExpr(match[2 : len(match)-1])
		if eerr != nil {
			if err == nil {
				err = eerr
			}
			return match
		}
		return fmt.Sprintf("%#x", value)
	})

	return
}
