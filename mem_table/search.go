package mem_table

import (
	"bytes"
	"sort"
	"strconv"

	"github.com/robot-dreams/medici"
)

type searchRequest struct {
	conds []*condition
	order *orderSpec
	limit *limitSpec
	count bool
	out   bool
}

type condition struct {
	selector string
	negate   bool
	match    func(value string) bool
}

type orderSpec struct {
	selector  string
	direction medici.OrderDirection
}

type limitSpec struct {
	max  int
	skip int
}

// entry is one matched record with its precomputed sort keys.
type entry struct {
	key     string
	sortStr string
	sortNum float64
}

func (m *MemTable) search(args [][]byte) ([][]byte, error) {
	req, err := parseSearch(args)
	if err != nil {
		return nil, err
	}
	entries, err := m.matchEntries(req)
	if err != nil {
		return nil, err
	}
	if req.order != nil {
		sort.Stable(&byColumn{
			direction: req.order.direction,
			entries:   entries,
		})
	}
	entries = applyLimit(entries, req.limit)
	if req.count {
		return [][]byte{decimal64(int64(len(entries)))}, nil
	}
	if req.out {
		for _, e := range entries {
			m.delete(e.key)
		}
		return nil, nil
	}
	keys := make([][]byte, len(entries))
	for i, e := range entries {
		keys[i] = []byte(e.key)
	}
	return keys, nil
}

// matchEntries scans keys in insertion order, keeping records that satisfy
// every condition.
func (m *MemTable) matchEntries(req *searchRequest) ([]entry, error) {
	var entries []entry
	for _, key := range m.keys {
		record, err := medici.DecodeColumns(m.records[key])
		if err != nil {
			return nil, medici.NewError(medici.CodeMisc, err.Error())
		}
		if !matches(req.conds, key, record) {
			continue
		}
		e := entry{key: key}
		if req.order != nil {
			value, _ := columnValue(req.order.selector, key, record)
			e.sortStr = value
			e.sortNum = number(value)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func matches(conds []*condition, key string, record medici.Record) bool {
	for _, cond := range conds {
		value, present := columnValue(cond.selector, key, record)
		hit := present && cond.match(value)
		if cond.negate {
			hit = !hit
		}
		if !hit {
			return false
		}
	}
	return true
}

// columnValue resolves a directive's column selector against one record: the
// empty selector means the primary key, otherwise the first column with that
// name wins.
func columnValue(selector, key string, record medici.Record) (string, bool) {
	if selector == "" {
		return key, true
	}
	for _, col := range record {
		if col.Name == selector {
			return col.Value.(string), true
		}
	}
	return "", false
}

func parseSearch(args [][]byte) (*searchRequest, error) {
	req := &searchRequest{}
	for _, arg := range args {
		fields := bytes.SplitN(arg, []byte{separator}, 4)
		switch string(fields[0]) {
		case "addcond":
			if len(fields) != 4 {
				return nil, badDirective(arg)
			}
			cond, err := parseCondition(fields)
			if err != nil {
				return nil, err
			}
			req.conds = append(req.conds, cond)
		case "setorder":
			if len(fields) != 3 {
				return nil, badDirective(arg)
			}
			code, err := strconv.Atoi(string(fields[2]))
			if err != nil {
				return nil, badDirective(arg)
			}
			direction := medici.OrderDirection(code)
			switch direction {
			case medici.StrAscending, medici.StrDescending,
				medici.NumAscending, medici.NumDescending:
			default:
				return nil, badDirective(arg)
			}
			req.order = &orderSpec{
				selector:  string(fields[1]),
				direction: direction,
			}
		case "setlimit":
			if len(fields) != 3 {
				return nil, badDirective(arg)
			}
			max, err := strconv.Atoi(string(fields[1]))
			if err != nil {
				return nil, badDirective(arg)
			}
			skip, err := strconv.Atoi(string(fields[2]))
			if err != nil {
				return nil, badDirective(arg)
			}
			req.limit = &limitSpec{max: max, skip: skip}
		case "count":
			req.count = true
		case "out":
			req.out = true
		default:
			return nil, badDirective(arg)
		}
	}
	return req, nil
}

func parseCondition(fields [][]byte) (*condition, error) {
	code, err := strconv.Atoi(string(fields[2]))
	if err != nil {
		return nil, badDirective(bytes.Join(fields, []byte{separator}))
	}
	negate := code&medici.NegateBit != 0
	// The no-index flag only picks an access path; a scan ignores it.
	base := code &^ (medici.NegateBit | medici.NoIndexBit)
	match, err := compileMatch(base, string(fields[3]))
	if err != nil {
		return nil, err
	}
	return &condition{
		selector: string(fields[1]),
		negate:   negate,
		match:    match,
	}, nil
}

func badDirective(arg []byte) error {
	return medici.NewError(
		medici.CodeInvalid,
		"malformed search directive "+strconv.Quote(string(arg)))
}

func applyLimit(entries []entry, limit *limitSpec) []entry {
	if limit == nil {
		return entries
	}
	if limit.skip >= len(entries) {
		return nil
	}
	entries = entries[limit.skip:]
	if limit.max < len(entries) {
		entries = entries[:limit.max]
	}
	return entries
}

// byColumn orders matched entries by their precomputed sort key.
type byColumn struct {
	direction medici.OrderDirection
	entries   []entry
}

var _ sort.Interface = (*byColumn)(nil)

func (b *byColumn) Len() int {
	return len(b.entries)
}

func (b *byColumn) Swap(i, j int) {
	b.entries[i], b.entries[j] = b.entries[j], b.entries[i]
}

func (b *byColumn) Less(i, j int) bool {
	e1 := b.entries[i]
	e2 := b.entries[j]
	switch b.direction {
	case medici.StrAscending:
		return e1.sortStr < e2.sortStr
	case medici.StrDescending:
		return e2.sortStr < e1.sortStr
	case medici.NumAscending:
		return e1.sortNum < e2.sortNum
	case medici.NumDescending:
		return e2.sortNum < e1.sortNum
	default:
		return false
	}
}
