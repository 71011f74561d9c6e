package medici

import (
	"io"

	. "gopkg.in/check.v1"
)

// CheckRecord should only be used in tests.  Records compare by name and
// rendered value so that int, []byte, and string inputs match their decoded
// string forms.
func CheckRecord(c *C, actual, expected Record) {
	c.Assert(actual, HasLen, len(expected))
	for i := range expected {
		c.Assert(actual[i].Name, Equals, expected[i].Name)
		actualValue, err := renderValue(actual[i].Value)
		c.Assert(err, IsNil)
		expectedValue, err := renderValue(expected[i].Value)
		c.Assert(err, IsNil)
		c.Assert(string(actualValue), Equals, string(expectedValue))
	}
}

// CheckKeyIterator should only be used in tests.
func CheckKeyIterator(c *C, it *KeyIterator, expected []string) {
	for _, key := range expected {
		actual, err := it.Next()
		c.Assert(err, IsNil)
		c.Assert(actual, Equals, key)
	}
	_, err := it.Next()
	c.Assert(err, Equals, io.EOF)
	// Repeated calls to Next should continue to return io.EOF after
	// reaching the end of the iteration.
	_, err = it.Next()
	c.Assert(err, Equals, io.EOF)
	err = it.Close()
	c.Assert(err, IsNil)
}
