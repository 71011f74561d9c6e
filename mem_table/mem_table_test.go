package mem_table

import (
	"github.com/robot-dreams/medici"
	. "gopkg.in/check.v1"

	. "github.com/dropbox/godropbox/gocheck2"
)

type MemTableSuite struct{}

var _ = Suite(&MemTableSuite{})

func (s *MemTableSuite) TestPutGet(c *C) {
	table := medici.NewTable(New())
	err := table.Put("user:1", medici.Record{
		{Name: "name", Value: "alice"},
		{Name: "age", Value: 30},
	})
	c.Assert(err, IsNil)
	record, err := table.Get("user:1")
	c.Assert(err, IsNil)
	medici.CheckRecord(c, record, medici.Record{
		{Name: "name", Value: "alice"},
		{Name: "age", Value: "30"},
	})
}

func (s *MemTableSuite) TestGetMissing(c *C) {
	table := medici.NewTable(New())
	c.Assert(table.Put("user:1", medici.Record{{Name: "name", Value: "alice"}}), IsNil)
	_, err := table.Get("user:2")
	c.Assert(err, NotNil)
	c.Assert(medici.IsNoRecord(err), IsTrue)
}

func (s *MemTableSuite) TestPutKeep(c *C) {
	table := medici.NewTable(New())
	c.Assert(table.PutKeep("user:1", medici.Record{{Name: "name", Value: "alice"}}), IsNil)
	err := table.PutKeep("user:1", medici.Record{{Name: "name", Value: "bob"}})
	c.Assert(err, NotNil)
	c.Assert(medici.IsKeep(err), IsTrue)
	record, err := table.Get("user:1")
	c.Assert(err, IsNil)
	medici.CheckRecord(c, record, medici.Record{{Name: "name", Value: "alice"}})
}

func (s *MemTableSuite) TestPutCatKeepsExistingColumns(c *C) {
	table := medici.NewTable(New())
	c.Assert(table.Put("user:1", medici.Record{{Name: "name", Value: "alice"}}), IsNil)
	err := table.PutCat("user:1", medici.Record{
		{Name: "name", Value: "bob"},
		{Name: "sport", Value: "baseball"},
	})
	c.Assert(err, IsNil)
	record, err := table.Get("user:1")
	c.Assert(err, IsNil)
	medici.CheckRecord(c, record, medici.Record{
		{Name: "name", Value: "alice"},
		{Name: "sport", Value: "baseball"},
	})
}

func (s *MemTableSuite) TestOut(c *C) {
	table := medici.NewTable(New())
	c.Assert(table.Put("user:1", medici.Record{{Name: "name", Value: "alice"}}), IsNil)
	c.Assert(table.Out("user:1"), IsNil)
	_, err := table.Get("user:1")
	c.Assert(medici.IsNoRecord(err), IsTrue)
	err = table.Out("user:1")
	c.Assert(medici.IsNoRecord(err), IsTrue)
}

func (s *MemTableSuite) TestDeletedKeySurvivesFilter(c *C) {
	// Deletes leave the key in the may-contain filter; the map lookup must
	// still miss, and a re-put must hit again.
	table := medici.NewTable(New())
	c.Assert(table.Put("user:1", medici.Record{{Name: "name", Value: "alice"}}), IsNil)
	c.Assert(table.Out("user:1"), IsNil)
	_, err := table.Get("user:1")
	c.Assert(medici.IsNoRecord(err), IsTrue)
	c.Assert(table.Put("user:1", medici.Record{{Name: "name", Value: "bob"}}), IsNil)
	record, err := table.Get("user:1")
	c.Assert(err, IsNil)
	medici.CheckRecord(c, record, medici.Record{{Name: "name", Value: "bob"}})
}

func (s *MemTableSuite) TestVanishAndRecordCount(c *C) {
	table := medici.NewTable(New())
	c.Assert(table.Put("a", medici.Record{{Name: "x", Value: "1"}}), IsNil)
	c.Assert(table.Put("b", medici.Record{{Name: "x", Value: "2"}}), IsNil)
	n, err := table.RecordCount()
	c.Assert(err, IsNil)
	c.Assert(n, Equals, int64(2))
	c.Assert(table.Vanish(), IsNil)
	n, err = table.RecordCount()
	c.Assert(err, IsNil)
	c.Assert(n, Equals, int64(0))
	_, err = table.Get("a")
	c.Assert(medici.IsNoRecord(err), IsTrue)
}

func (s *MemTableSuite) TestGenUID(c *C) {
	table := medici.NewTable(New())
	first, err := table.GenUID()
	c.Assert(err, IsNil)
	second, err := table.GenUID()
	c.Assert(err, IsNil)
	c.Assert(second > first, IsTrue)
}

func (s *MemTableSuite) TestIterate(c *C) {
	table := medici.NewTable(New())
	c.Assert(table.Put("a", medici.Record{{Name: "x", Value: "1"}}), IsNil)
	c.Assert(table.Put("b", medici.Record{{Name: "x", Value: "2"}}), IsNil)
	c.Assert(table.Put("c", medici.Record{{Name: "x", Value: "3"}}), IsNil)
	it, err := table.Iterate()
	c.Assert(err, IsNil)
	medici.CheckKeyIterator(c, it, []string{"a", "b", "c"})
}

func (s *MemTableSuite) TestAddInt(c *C) {
	table := medici.NewTable(New())
	sum, err := table.AddInt("counter", 3)
	c.Assert(err, IsNil)
	c.Assert(sum, Equals, 3)
	sum, err = table.AddInt("counter", 4)
	c.Assert(err, IsNil)
	c.Assert(sum, Equals, 7)
	// The counter lives in the record's reserved numeric column.
	record, err := table.Get("counter")
	c.Assert(err, IsNil)
	medici.CheckRecord(c, record, medici.Record{{Name: "_num", Value: "7"}})
}

func (s *MemTableSuite) TestAddDouble(c *C) {
	table := medici.NewTable(New())
	sum, err := table.AddDouble("counter", 1.5)
	c.Assert(err, IsNil)
	c.Assert(sum, Equals, 1.5)
	sum, err = table.AddDouble("counter", 2.25)
	c.Assert(err, IsNil)
	c.Assert(sum, Equals, 3.75)
}

func (s *MemTableSuite) TestSetIndex(c *C) {
	table := medici.NewTable(New())
	c.Assert(table.SetIndex("age", medici.IndexDecimal), IsNil)
	c.Assert(table.SetIndex("age", medici.IndexOptimize), IsNil)
	c.Assert(table.SetIndex("age", medici.IndexDelete), IsNil)
	err := table.SetIndex("age", medici.IndexDelete)
	c.Assert(err, NotNil)
}

func (s *MemTableSuite) TestUnknownOpcode(c *C) {
	m := New()
	_, err := m.Send("bogus", nil)
	c.Assert(err, NotNil)
}

func (s *MemTableSuite) TestUpdateEndToEnd(c *C) {
	table := medici.NewTable(New())
	c.Assert(table.Put("user:1", medici.Record{
		{Name: "name", Value: "alice"},
		{Name: "sport", Value: "baseball"},
	}), IsNil)
	c.Assert(table.Update("user:1", medici.Record{
		{Name: "sport", Value: "swimming"},
		{Name: "pet", Value: "dog"},
	}), IsNil)
	record, err := table.Get("user:1")
	c.Assert(err, IsNil)
	medici.CheckRecord(c, record, medici.Record{
		{Name: "name", Value: "alice"},
		{Name: "sport", Value: "swimming"},
		{Name: "pet", Value: "dog"},
	})
}
