package mem_table

import (
	"strconv"

	"github.com/robot-dreams/medici"
	"github.com/willf/bloom"
)

const separator byte = 0

// MemTable is an in-memory table database speaking the client's Send
// contract; it stands in for a remote server in tests and benchmarks.  A
// real server serializes the requests of one connection, and callers here
// must do the same: MemTable is not safe for concurrent use.
type MemTable struct {
	// Insertion order of keys, for iteration and search scans.
	keys    []string
	records map[string][]byte

	// May-contain filter over primary keys.  Keys are only ever added, so a
	// deleted key costs at most a stale map lookup; there are no false
	// misses.
	keyFilter *bloom.BloomFilter

	indexes map[string]medici.IndexType
	uid     int64
	cursor  int
}

var _ medici.Transport = (*MemTable)(nil)

func New() *MemTable {
	return &MemTable{
		records:   make(map[string][]byte),
		keyFilter: bloom.New(1<<16, 5),
		indexes:   make(map[string]medici.IndexType),
	}
}

func (m *MemTable) Send(opcode string, args [][]byte) ([][]byte, error) {
	switch opcode {
	case "put":
		return m.put(args, putOverwrite)
	case "putkeep":
		return m.put(args, putKeep)
	case "putcat":
		return m.put(args, putCat)
	case "out":
		return m.out(args)
	case "get":
		return m.get(args)
	case "search":
		return m.search(args)
	case "setindex":
		return m.setIndex(args)
	case "genuid":
		m.uid++
		return [][]byte{decimal64(m.uid)}, nil
	case "iterinit":
		m.cursor = 0
		return nil, nil
	case "iternext":
		return m.iterNext()
	case "addint", "adddouble":
		return m.add(args)
	case "vanish":
		m.keys = nil
		m.records = make(map[string][]byte)
		m.keyFilter.ClearAll()
		m.cursor = 0
		return nil, nil
	case "rnum":
		return [][]byte{decimal64(int64(len(m.records)))}, nil
	default:
		return nil, medici.NewError(
			medici.CodeInvalid, "unknown opcode "+opcode)
	}
}

type putMode int

const (
	putOverwrite putMode = iota
	putKeep
	putCat
)

func (m *MemTable) put(args [][]byte, mode putMode) ([][]byte, error) {
	if len(args) < 1 || len(args)%2 != 1 {
		return nil, medici.NewError(
			medici.CodeInvalid, "put needs a key and name/value pairs")
	}
	key := string(args[0])
	existing, exists := m.records[key]
	columns := args[1:]
	switch mode {
	case putKeep:
		if exists {
			return nil, medici.NewError(
				medici.CodeKeep, "existing record kept")
		}
	case putCat:
		if exists {
			merged, err := catColumns(existing, columns)
			if err != nil {
				return nil, err
			}
			columns = merged
		}
	}
	m.store(key, encodeBlob(columns))
	return nil, nil
}

// catColumns appends incoming pairs whose names are absent from the stored
// record; existing columns win.
func catColumns(blob []byte, incoming [][]byte) ([][]byte, error) {
	record, err := medici.DecodeColumns(blob)
	if err != nil {
		return nil, medici.NewError(medici.CodeMisc, err.Error())
	}
	present := make(map[string]bool, len(record))
	merged := make([][]byte, 0, 2*len(record)+len(incoming))
	for _, col := range record {
		present[col.Name] = true
		merged = append(
			merged, []byte(col.Name), []byte(col.Value.(string)))
	}
	for i := 0; i+1 < len(incoming); i += 2 {
		if present[string(incoming[i])] {
			continue
		}
		merged = append(merged, incoming[i], incoming[i+1])
	}
	return merged, nil
}

func (m *MemTable) out(args [][]byte) ([][]byte, error) {
	if len(args) != 1 {
		return nil, medici.NewError(
			medici.CodeInvalid, "out needs exactly a key")
	}
	if !m.delete(string(args[0])) {
		return nil, medici.NewError(medici.CodeNoRecord, "no record found")
	}
	return nil, nil
}

func (m *MemTable) get(args [][]byte) ([][]byte, error) {
	if len(args) != 1 {
		return nil, medici.NewError(
			medici.CodeInvalid, "get needs exactly a key")
	}
	key := string(args[0])
	if !m.keyFilter.Test([]byte(key)) {
		return nil, medici.NewError(medici.CodeNoRecord, "no record found")
	}
	blob, ok := m.records[key]
	if !ok {
		return nil, medici.NewError(medici.CodeNoRecord, "no record found")
	}
	return [][]byte{blob}, nil
}

func (m *MemTable) setIndex(args [][]byte) ([][]byte, error) {
	if len(args) != 2 {
		return nil, medici.NewError(
			medici.CodeInvalid, "setindex needs a column and an index type")
	}
	column := string(args[0])
	code, err := strconv.Atoi(string(args[1]))
	if err != nil {
		return nil, medici.NewError(
			medici.CodeInvalid, "malformed index type "+string(args[1]))
	}
	switch medici.IndexType(code) {
	case medici.IndexLexical, medici.IndexDecimal,
		medici.IndexToken, medici.IndexQGram:
		m.indexes[column] = medici.IndexType(code)
	case medici.IndexOptimize:
		if _, ok := m.indexes[column]; !ok {
			return nil, medici.NewError(
				medici.CodeInvalid, "no index to optimize on "+column)
		}
	case medici.IndexDelete:
		if _, ok := m.indexes[column]; !ok {
			return nil, medici.NewError(
				medici.CodeInvalid, "no index to delete on "+column)
		}
		delete(m.indexes, column)
	default:
		return nil, medici.NewError(
			medici.CodeInvalid, "unknown index type "+string(args[1]))
	}
	return nil, nil
}

func (m *MemTable) iterNext() ([][]byte, error) {
	if m.cursor >= len(m.keys) {
		return nil, medici.NewError(medici.CodeNoRecord, "no record found")
	}
	key := m.keys[m.cursor]
	m.cursor++
	return [][]byte{[]byte(key)}, nil
}

// The increment opcodes keep their counter in a reserved column.
const numColumn = "_num"

func (m *MemTable) add(args [][]byte) ([][]byte, error) {
	if len(args) != 2 {
		return nil, medici.NewError(
			medici.CodeInvalid, "increment needs a key and a delta")
	}
	key := string(args[0])
	delta, err := strconv.ParseFloat(string(args[1]), 64)
	if err != nil {
		return nil, medici.NewError(
			medici.CodeInvalid, "malformed delta "+string(args[1]))
	}
	record := medici.Record{}
	if blob, ok := m.records[key]; ok {
		record, err = medici.DecodeColumns(blob)
		if err != nil {
			return nil, medici.NewError(medici.CodeMisc, err.Error())
		}
	}
	sum := delta
	updated := false
	for i, col := range record {
		if col.Name != numColumn {
			continue
		}
		current, _ := strconv.ParseFloat(col.Value.(string), 64)
		sum += current
		record[i].Value = formatNumber(sum)
		updated = true
		break
	}
	if !updated {
		record = append(
			record, medici.Column{Name: numColumn, Value: formatNumber(sum)})
	}
	encoded, err := medici.EncodeColumns(record)
	if err != nil {
		return nil, medici.NewError(medici.CodeMisc, err.Error())
	}
	m.store(key, encodeBlob(encoded))
	return [][]byte{[]byte(formatNumber(sum))}, nil
}

func (m *MemTable) store(key string, blob []byte) {
	if _, ok := m.records[key]; !ok {
		m.keys = append(m.keys, key)
		m.keyFilter.Add([]byte(key))
	}
	m.records[key] = blob
}

func (m *MemTable) delete(key string) bool {
	if _, ok := m.records[key]; !ok {
		return false
	}
	delete(m.records, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

// encodeBlob terminates every token and the record itself with a separator,
// matching the server's stored column format.
func encodeBlob(tokens [][]byte) []byte {
	size := 1
	for _, token := range tokens {
		size += len(token) + 1
	}
	blob := make([]byte, 0, size)
	for _, token := range tokens {
		blob = append(blob, token...)
		blob = append(blob, separator)
	}
	return append(blob, separator)
}

func formatNumber(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func decimal64(x int64) []byte {
	return strconv.AppendInt(nil, x, 10)
}
