package medici

// PredicateOp identifies a condition's comparison operator.  Values are the
// wire codes the server requires.
type PredicateOp int

const (
	StrEq    PredicateOp = 0
	StrInc   PredicateOp = 1
	StrBegin PredicateOp = 2
	StrEnd   PredicateOp = 3
	StrAnd   PredicateOp = 4
	StrOr    PredicateOp = 5
	// Wire code 6 exists in the server's enumeration but has no reachable
	// name in this builder; the hole is intentional.
	StrRegex   PredicateOp = 7
	NumEq      PredicateOp = 8
	NumGT      PredicateOp = 9
	NumGE      PredicateOp = 10
	NumLT      PredicateOp = 11
	NumLE      PredicateOp = 12
	NumBetween PredicateOp = 13
	NumInList  PredicateOp = 14
)

// Modifier flags OR-combined with a predicate's base code.
const (
	NegateBit  = 1 << 24
	NoIndexBit = 1 << 25
)

func (op PredicateOp) baseCode() (int, error) {
	switch op {
	case StrEq, StrInc, StrBegin, StrEnd, StrAnd, StrOr, StrRegex,
		NumEq, NumGT, NumGE, NumLT, NumLE, NumBetween, NumInList:
		return int(op), nil
	default:
		return 0, newArgumentError("unknown predicate %d", int(op))
	}
}

// Cond is a PredicateOp wrapped with negate and/or skip-index modifiers.
type Cond struct {
	op      PredicateOp
	negate  bool
	noIndex bool
}

// ConditionOp is a bare PredicateOp or a Cond built from one via Negate and
// NoIndex.
type ConditionOp interface {
	cond() Cond
}

func (op PredicateOp) cond() Cond {
	return Cond{op: op}
}

func (c Cond) cond() Cond {
	return c
}

// Negate inverts the condition's match.
func (op PredicateOp) Negate() Cond {
	return Cond{op: op, negate: true}
}

// NoIndex makes the server evaluate the condition without consulting any
// column index.
func (op PredicateOp) NoIndex() Cond {
	return Cond{op: op, noIndex: true}
}

func (c Cond) Negate() Cond {
	c.negate = true
	return c
}

func (c Cond) NoIndex() Cond {
	c.noIndex = true
	return c
}

func (c Cond) opcode() (int, error) {
	code, err := c.op.baseCode()
	if err != nil {
		return 0, err
	}
	if c.negate {
		code |= NegateBit
	}
	if c.noIndex {
		code |= NoIndexBit
	}
	return code, nil
}

// OrderDirection selects how search results are ordered.
type OrderDirection int

const (
	StrAscending  OrderDirection = 0
	StrDescending OrderDirection = 1
	NumAscending  OrderDirection = 2
	NumDescending OrderDirection = 3
)

func (d OrderDirection) code() (int, error) {
	switch d {
	case StrAscending, StrDescending, NumAscending, NumDescending:
		return int(d), nil
	default:
		return 0, newArgumentError("unknown order direction %d", int(d))
	}
}

// IndexType selects the kind of column index a SetIndex call maintains.
type IndexType int

const (
	IndexLexical  IndexType = 0
	IndexDecimal  IndexType = 1
	IndexToken    IndexType = 2
	IndexQGram    IndexType = 3
	IndexOptimize IndexType = 9998
	IndexDelete   IndexType = 9999
)

func (t IndexType) code() (int, error) {
	switch t {
	case IndexLexical, IndexDecimal, IndexToken, IndexQGram,
		IndexOptimize, IndexDelete:
		return int(t), nil
	default:
		return 0, newArgumentError("unknown index type %d", int(t))
	}
}
