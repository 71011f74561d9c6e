package mem_table

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/robot-dreams/medici"
)

// compileMatch turns a condition's base opcode and expression into a closure
// over one column value.  Numeric predicates coerce unparseable text to zero,
// as the server does.
func compileMatch(code int, expr string) (func(string) bool, error) {
	switch medici.PredicateOp(code) {
	case medici.StrEq:
		return func(value string) bool {
			return value == expr
		}, nil
	case medici.StrInc:
		return func(value string) bool {
			return strings.Contains(value, expr)
		}, nil
	case medici.StrBegin:
		return func(value string) bool {
			return strings.HasPrefix(value, expr)
		}, nil
	case medici.StrEnd:
		return func(value string) bool {
			return strings.HasSuffix(value, expr)
		}, nil
	case medici.StrAnd:
		tokens := strings.Split(expr, ",")
		return func(value string) bool {
			for _, token := range tokens {
				if !strings.Contains(value, token) {
					return false
				}
			}
			return true
		}, nil
	case medici.StrOr:
		tokens := strings.Split(expr, ",")
		return func(value string) bool {
			for _, token := range tokens {
				if strings.Contains(value, token) {
					return true
				}
			}
			return false
		}, nil
	case medici.StrRegex:
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, medici.NewError(
				medici.CodeInvalid, "malformed condition regexp "+expr)
		}
		return re.MatchString, nil
	case medici.NumEq:
		x := number(expr)
		return func(value string) bool {
			return number(value) == x
		}, nil
	case medici.NumGT:
		x := number(expr)
		return func(value string) bool {
			return number(value) > x
		}, nil
	case medici.NumGE:
		x := number(expr)
		return func(value string) bool {
			return number(value) >= x
		}, nil
	case medici.NumLT:
		x := number(expr)
		return func(value string) bool {
			return number(value) < x
		}, nil
	case medici.NumLE:
		x := number(expr)
		return func(value string) bool {
			return number(value) <= x
		}, nil
	case medici.NumBetween:
		tokens := strings.Split(expr, ",")
		if len(tokens) != 2 {
			return nil, medici.NewError(
				medici.CodeInvalid, "between needs two operands; got "+expr)
		}
		lo := number(tokens[0])
		hi := number(tokens[1])
		if hi < lo {
			lo, hi = hi, lo
		}
		return func(value string) bool {
			x := number(value)
			return lo <= x && x <= hi
		}, nil
	case medici.NumInList:
		tokens := strings.Split(expr, ",")
		return func(value string) bool {
			x := number(value)
			for _, token := range tokens {
				if number(token) == x {
					return true
				}
			}
			return false
		}, nil
	default:
		return nil, medici.NewError(
			medici.CodeInvalid,
			"unknown condition opcode "+strconv.Itoa(code))
	}
}

func number(s string) float64 {
	x, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return x
}
