package medici

import (
	"strconv"
)

// Columns are separated by NUL bytes on the wire.
const columnSeparator byte = 0

// EncodeColumns flattens a Record into wire arguments: name, value, name,
// value, in input order.  Numeric values are rendered as decimal text.  No
// escaping is applied; keeping NUL bytes out of names and values is the
// caller's responsibility.
func EncodeColumns(r Record) ([][]byte, error) {
	args := make([][]byte, 0, 2*len(r))
	for _, col := range r {
		value, err := renderValue(col.Value)
		if err != nil {
			return nil, err
		}
		args = append(args, []byte(col.Name), value)
	}
	return args, nil
}

// DecodeColumns reconstructs a Record from a NUL-delimited blob.  The scanner
// emits a token at each separator only when the accumulator is non-empty, so
// runs of separators (the value terminator followed by the record terminator)
// never produce empty tokens.  A trailing unterminated token is kept.  An odd
// token count means the blob is garbled and is reported as a *DecodeError
// rather than recovered from.
func DecodeColumns(raw []byte) (Record, error) {
	var tokens [][]byte
	var buf []byte
	for _, b := range raw {
		if b != columnSeparator {
			buf = append(buf, b)
			continue
		}
		if len(buf) > 0 {
			tokens = append(tokens, buf)
			buf = nil
		}
	}
	if len(buf) > 0 {
		tokens = append(tokens, buf)
	}
	if len(tokens)%2 != 0 {
		return nil, newDecodeError(
			"record blob has %d tokens; want an even count", len(tokens))
	}
	record := make(Record, 0, len(tokens)/2)
	for i := 0; i < len(tokens); i += 2 {
		record = append(record, Column{
			Name:  string(tokens[i]),
			Value: string(tokens[i+1]),
		})
	}
	return record, nil
}

// DecodeResponse decodes a fetched record blob, passing any transport error
// through untouched.  Error payloads are never parsed as records.
func DecodeResponse(raw []byte, err error) (Record, error) {
	if err != nil {
		return nil, err
	}
	return DecodeColumns(raw)
}

func renderValue(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case int:
		return strconv.AppendInt(nil, int64(v), 10), nil
	case int64:
		return strconv.AppendInt(nil, v, 10), nil
	case float64:
		return strconv.AppendFloat(nil, v, 'f', -1, 64), nil
	default:
		return nil, newArgumentError("unsupported value type %T", value)
	}
}
