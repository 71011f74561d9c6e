package medici

import (
	"bytes"
	"strconv"
)

type directiveKind int

const (
	kindCondition directiveKind = iota
	kindOrder
	kindLimit
)

// directive is one self-contained wire argument: a condition, the ordering,
// or the result limit.
type directive struct {
	kind directiveKind
	arg  []byte
}

// Query accumulates search directives.  Directives live on a stack: each
// builder call pushes to the front, and the serialized order is the reverse
// of call order.  That LIFO order is part of the wire contract, not an
// accident.  Order and limit are singleton slots; setting one again removes
// the earlier directive before pushing the replacement.
//
// A Query must not be mutated by two goroutines at once; independent Queries
// share nothing.
type Query struct {
	directives []directive
}

func NewQuery() *Query {
	return &Query{}
}

// AddCondition pushes a condition on column (Primary for the record's key)
// with the given operator and operands.  Operands join with a literal comma;
// commas inside operand text are not escaped and are indistinguishable from
// separators.
func (q *Query) AddCondition(
	column string,
	op ConditionOp,
	operands ...interface{},
) error {
	code, err := op.cond().opcode()
	if err != nil {
		return err
	}
	joined, err := joinOperands(operands)
	if err != nil {
		return err
	}
	q.push(directive{
		kind: kindCondition,
		arg:  directiveArg("addcond", []byte(column), decimal(code), joined),
	})
	return nil
}

// SetOrder replaces the query's ordering with the given column (Primary for
// the record's key) and direction.
func (q *Query) SetOrder(column string, dir OrderDirection) error {
	code, err := dir.code()
	if err != nil {
		return err
	}
	q.removeKind(kindOrder)
	q.push(directive{
		kind: kindOrder,
		arg:  directiveArg("setorder", []byte(column), decimal(code)),
	})
	return nil
}

// SetLimit replaces the query's result limit: at most max keys, skipping the
// first skip matches.  max must be positive and skip non-negative.
func (q *Query) SetLimit(max, skip int) error {
	if max <= 0 {
		return newArgumentError("limit max must be positive; got %d", max)
	}
	if skip < 0 {
		return newArgumentError("limit skip must be non-negative; got %d", skip)
	}
	q.removeKind(kindLimit)
	q.push(directive{
		kind: kindLimit,
		arg:  directiveArg("setlimit", decimal(max), decimal(skip)),
	})
	return nil
}

// Serialize emits the directives as the argument list for a search call,
// most recently built first.
func (q *Query) Serialize() [][]byte {
	args := make([][]byte, len(q.directives))
	for i, d := range q.directives {
		args[i] = d.arg
	}
	return args
}

func (q *Query) push(d directive) {
	q.directives = append([]directive{d}, q.directives...)
}

// removeKind drops the first directive of the given kind.  The singleton
// slots hold at most one, so removing the first is removing the only.
func (q *Query) removeKind(kind directiveKind) {
	for i, d := range q.directives {
		if d.kind == kind {
			q.directives = append(q.directives[:i], q.directives[i+1:]...)
			return
		}
	}
}

func directiveArg(name string, fields ...[]byte) []byte {
	parts := make([][]byte, 0, len(fields)+1)
	parts = append(parts, []byte(name))
	parts = append(parts, fields...)
	return bytes.Join(parts, []byte{columnSeparator})
}

func joinOperands(operands []interface{}) ([]byte, error) {
	rendered := make([][]byte, len(operands))
	for i, operand := range operands {
		value, err := renderValue(operand)
		if err != nil {
			return nil, err
		}
		rendered[i] = value
	}
	return bytes.Join(rendered, []byte(",")), nil
}

func decimal(x int) []byte {
	return strconv.AppendInt(nil, int64(x), 10)
}
