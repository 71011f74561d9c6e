package medici

import (
	. "gopkg.in/check.v1"

	. "github.com/dropbox/godropbox/gocheck2"
)

type OpcodeSuite struct{}

var _ = Suite(&OpcodeSuite{})

func (s *OpcodeSuite) TestBaseCodes(c *C) {
	expected := map[PredicateOp]int{
		StrEq:      0,
		StrInc:     1,
		StrBegin:   2,
		StrEnd:     3,
		StrAnd:     4,
		StrOr:      5,
		StrRegex:   7,
		NumEq:      8,
		NumGT:      9,
		NumGE:      10,
		NumLT:      11,
		NumLE:      12,
		NumBetween: 13,
		NumInList:  14,
	}
	for op, expectedCode := range expected {
		code, err := op.cond().opcode()
		c.Assert(err, IsNil)
		c.Assert(code, Equals, expectedCode)
	}
}

func (s *OpcodeSuite) TestFlagComposition(c *C) {
	code, err := StrAnd.Negate().cond().opcode()
	c.Assert(err, IsNil)
	c.Assert(code, Equals, 16777220)

	code, err = StrEq.NoIndex().cond().opcode()
	c.Assert(err, IsNil)
	c.Assert(code, Equals, 33554432)

	code, err = StrEq.Negate().NoIndex().cond().opcode()
	c.Assert(err, IsNil)
	c.Assert(code, Equals, NegateBit|NoIndexBit)
}

func (s *OpcodeSuite) TestUnknownPredicate(c *C) {
	// Code 6 is a hole in the protocol's enumeration: it has no name here
	// and must not resolve.
	_, err := PredicateOp(6).cond().opcode()
	c.Assert(err, NotNil)
	c.Assert(IsArgumentError(err), IsTrue)

	_, err = PredicateOp(42).cond().opcode()
	c.Assert(err, NotNil)
	c.Assert(IsArgumentError(err), IsTrue)
}

func (s *OpcodeSuite) TestDirectionCodes(c *C) {
	expected := map[OrderDirection]int{
		StrAscending:  0,
		StrDescending: 1,
		NumAscending:  2,
		NumDescending: 3,
	}
	for direction, expectedCode := range expected {
		code, err := direction.code()
		c.Assert(err, IsNil)
		c.Assert(code, Equals, expectedCode)
	}
	_, err := OrderDirection(4).code()
	c.Assert(err, NotNil)
	c.Assert(IsArgumentError(err), IsTrue)
}

func (s *OpcodeSuite) TestIndexTypeCodes(c *C) {
	code, err := IndexDecimal.code()
	c.Assert(err, IsNil)
	c.Assert(code, Equals, 1)

	code, err = IndexDelete.code()
	c.Assert(err, IsNil)
	c.Assert(code, Equals, 9999)

	_, err = IndexType(7).code()
	c.Assert(err, NotNil)
	c.Assert(IsArgumentError(err), IsTrue)
}
