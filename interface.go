package medici

// Column is a single name/value pair in a table record.  Value must be a
// string, []byte, int, int64, or float64; numeric values are rendered as
// decimal text on the wire.  Names and rendered values must not contain NUL
// bytes (the protocol separator); the codec does not check this.
type Column struct {
	Name  string
	Value interface{}
}

// Record is an ordered sequence of Columns.  The codec preserves order and
// never deduplicates names.
type Record []Column

// Primary selects the record's primary key instead of a named column in
// condition and order directives.  It encodes as an empty selector field.
const Primary = ""

// Transport issues one protocol round trip: an opcode plus an ordered
// argument list out, an ordered result list back.  It owns connection
// management, message framing, and the byte-order-sensitive encoding of the
// increment opcodes; the core never touches sockets.
//
// A failed call returns an *Error carrying the server's code, passed through
// unreinterpreted.  The server-side iteration cursor is a single resource per
// connection: interleaving two iterations over the same Transport produces
// undefined results.
type Transport interface {
	Send(opcode string, args [][]byte) ([][]byte, error)
}
