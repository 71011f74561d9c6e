package main

import (
	"flag"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/dropbox/godropbox/math2/rand2"
	"github.com/robot-dreams/medici"
	"github.com/robot-dreams/medici/mem_table"
)

var sports = []string{
	"baseball", "swimming", "cycling", "climbing", "rowing", "fencing",
}

const nameAlphabet = "abcdefghijklmnopqrstuvwxyz"

func randomName() string {
	name := make([]byte, 3+rand2.Intn(8))
	for i := range name {
		name[i] = nameAlphabet[rand2.Intn(len(nameAlphabet))]
	}
	return string(name)
}

func main() {
	var flagRecords int
	var flagSearches int
	flag.IntVar(&flagRecords, "records", 100000, "number of records to load")
	flag.IntVar(&flagSearches, "searches", 1000, "number of searches to run")
	flag.Parse()
	table := medici.NewTable(mem_table.New())
	start := time.Now()
	for i := 0; i < flagRecords; i++ {
		err := table.Put(
			"user:"+strconv.Itoa(i),
			medici.Record{
				{Name: "name", Value: randomName()},
				{Name: "age", Value: rand2.Intn(100)},
				{Name: "sport", Value: sports[rand2.Intn(len(sports))]},
			})
		if err != nil {
			log.Fatal(err)
		}
	}
	fmt.Printf(
		"Done loading %d records after %v\n",
		flagRecords,
		time.Since(start))
	fmt.Println("Resetting timer...")
	start = time.Now()
	numMatched := 0
	for i := 0; i < flagSearches; i++ {
		q := medici.NewQuery()
		err := q.AddCondition(
			"sport", medici.StrEq, sports[rand2.Intn(len(sports))])
		if err != nil {
			log.Fatal(err)
		}
		err = q.AddCondition("age", medici.NumGE, rand2.Intn(100))
		if err != nil {
			log.Fatal(err)
		}
		err = q.SetOrder("name", medici.StrAscending)
		if err != nil {
			log.Fatal(err)
		}
		err = q.SetLimit(10, 0)
		if err != nil {
			log.Fatal(err)
		}
		keys, err := table.Search(q)
		if err != nil {
			log.Fatal(err)
		}
		numMatched += len(keys)
	}
	fmt.Printf(
		"Done running %d searches (%d keys returned) after %v\n",
		flagSearches,
		numMatched,
		time.Since(start))
}
