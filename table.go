package medici

import (
	"io"
	"strconv"

	"github.com/dropbox/godropbox/errors"
)

// Table is a client for one table database reached through a Transport.
type Table struct {
	transport Transport
}

func NewTable(transport Transport) *Table {
	return &Table{transport: transport}
}

// Put stores a record under key, overwriting any existing record whole.
func (t *Table) Put(key string, r Record) error {
	args, err := EncodeColumns(r)
	if err != nil {
		return err
	}
	_, err = t.transport.Send("put", prependKey(key, args))
	return err
}

// PutKeep stores a record under key only if the key is absent; an existing
// record is kept and the call fails with CodeKeep.
func (t *Table) PutKeep(key string, r Record) error {
	args, err := EncodeColumns(r)
	if err != nil {
		return err
	}
	_, err = t.transport.Send("putkeep", prependKey(key, args))
	return err
}

// PutCat adds the given columns to the record under key, keeping existing
// columns over incoming ones with the same name.
func (t *Table) PutCat(key string, r Record) error {
	args, err := EncodeColumns(r)
	if err != nil {
		return err
	}
	_, err = t.transport.Send("putcat", prependKey(key, args))
	return err
}

// Out deletes the record under key.
func (t *Table) Out(key string) error {
	_, err := t.transport.Send("out", [][]byte{[]byte(key)})
	return err
}

// Get fetches and decodes the record under key.
func (t *Table) Get(key string) (Record, error) {
	resp, err := t.transport.Send("get", [][]byte{[]byte(key)})
	return DecodeResponse(firstArg(resp), err)
}

// Search runs the query and returns the matching primary keys.
func (t *Table) Search(q *Query) ([]string, error) {
	resp, err := t.transport.Send("search", q.Serialize())
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(resp))
	for i, raw := range resp {
		keys[i] = string(raw)
	}
	return keys, nil
}

// SearchCount runs the query in count mode and returns the number of
// matching records.  An empty response means zero.
func (t *Table) SearchCount(q *Query) (int, error) {
	args := append(q.Serialize(), []byte("count"))
	resp, err := t.transport.Send("search", args)
	if err != nil {
		return 0, err
	}
	if len(resp) == 0 {
		return 0, nil
	}
	count, err := strconv.Atoi(string(resp[0]))
	if err != nil {
		return 0, errors.Wrapf(err, "malformed search count %q", resp[0])
	}
	return count, nil
}

// SearchOut runs the query in delete mode, removing every matching record.
func (t *Table) SearchOut(q *Query) error {
	args := append(q.Serialize(), []byte("out"))
	_, err := t.transport.Send("search", args)
	return err
}

// SetIndex creates, rebuilds, or removes an index on the named column.
func (t *Table) SetIndex(column string, kind IndexType) error {
	code, err := kind.code()
	if err != nil {
		return err
	}
	_, err = t.transport.Send(
		"setindex", [][]byte{[]byte(column), decimal(code)})
	return err
}

// GenUID returns a fresh unique id from the server's generator.
func (t *Table) GenUID() (int64, error) {
	resp, err := t.transport.Send("genuid", nil)
	if err != nil {
		return 0, err
	}
	if len(resp) == 0 {
		return 0, errors.New("empty genuid response")
	}
	uid, err := strconv.ParseInt(string(resp[0]), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "malformed uid %q", resp[0])
	}
	return uid, nil
}

// AddInt adds delta to the number stored under key and returns the new
// value.  The transport owns the opcode's numeric wire encoding.
func (t *Table) AddInt(key string, delta int) (int, error) {
	resp, err := t.transport.Send(
		"addint", [][]byte{[]byte(key), decimal(delta)})
	if err != nil {
		return 0, err
	}
	if len(resp) == 0 {
		return 0, errors.New("empty addint response")
	}
	sum, err := strconv.Atoi(string(resp[0]))
	if err != nil {
		return 0, errors.Wrapf(err, "malformed addint sum %q", resp[0])
	}
	return sum, nil
}

// AddDouble adds delta to the number stored under key and returns the new
// value.
func (t *Table) AddDouble(key string, delta float64) (float64, error) {
	resp, err := t.transport.Send(
		"adddouble",
		[][]byte{
			[]byte(key),
			strconv.AppendFloat(nil, delta, 'f', -1, 64),
		})
	if err != nil {
		return 0, err
	}
	if len(resp) == 0 {
		return 0, errors.New("empty adddouble response")
	}
	sum, err := strconv.ParseFloat(string(resp[0]), 64)
	if err != nil {
		return 0, errors.Wrapf(err, "malformed adddouble sum %q", resp[0])
	}
	return sum, nil
}

// Vanish deletes every record in the table.
func (t *Table) Vanish() error {
	_, err := t.transport.Send("vanish", nil)
	return err
}

// RecordCount returns the number of records in the table.
func (t *Table) RecordCount() (int64, error) {
	resp, err := t.transport.Send("rnum", nil)
	if err != nil {
		return 0, err
	}
	if len(resp) == 0 {
		return 0, errors.New("empty rnum response")
	}
	n, err := strconv.ParseInt(string(resp[0]), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "malformed record count %q", resp[0])
	}
	return n, nil
}

// Iterate resets the table's iteration cursor and returns an iterator over
// every primary key.  The cursor lives server-side, one per connection, so
// two concurrent iterations over the same Transport interleave
// unpredictably.
func (t *Table) Iterate() (*KeyIterator, error) {
	_, err := t.transport.Send("iterinit", nil)
	if err != nil {
		return nil, err
	}
	return &KeyIterator{transport: t.transport}, nil
}

// KeyIterator walks primary keys; Next returns io.EOF past the last one.
type KeyIterator struct {
	transport Transport
	closed    bool
}

func (it *KeyIterator) Next() (string, error) {
	if it.closed {
		return "", errors.New("Cannot call Next after iterator was closed")
	}
	resp, err := it.transport.Send("iternext", nil)
	if IsNoRecord(err) {
		return "", io.EOF
	} else if err != nil {
		return "", err
	}
	if len(resp) == 0 {
		return "", io.EOF
	}
	return string(resp[0]), nil
}

func (it *KeyIterator) Close() error {
	it.closed = true
	return nil
}

func prependKey(key string, args [][]byte) [][]byte {
	return append([][]byte{[]byte(key)}, args...)
}

func firstArg(resp [][]byte) []byte {
	if len(resp) == 0 {
		return nil
	}
	return resp[0]
}
