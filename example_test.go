package stepwise_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/stepwise"
	"github.com/aretw0/stepwise/pkg/algorithms"
	"github.com/aretw0/stepwise/pkg/trace"
)

// ExampleEngine_Cursor walks the heap-build fixture from start to end.
func ExampleEngine_Cursor() {
	eng, err := stepwise.New()
	if err != nil {
		log.Fatal(err)
	}

	c, err := eng.Cursor(context.Background(), "heap-build", nil)
	if err != nil {
		log.Fatal(err)
	}

	for c.Next() {
	}
	last, err := trace.StateAs[algorithms.ArrayState](c.Current())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(c.Len(), c.Current().Phase, last.Values)
	// Output: 6 done [1 4 2 5 10 3]
}
