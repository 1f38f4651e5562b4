/*
Package stepwise is a deterministic algorithm step-tracer for study material on
data structures and algorithms.

A generator fully unrolls a textbook algorithm (heap construction, quicksort
partitioning, BST traversal, Dijkstra, Huffman coding, linear probing, ...) into
an immutable Trace of Steps. Each Step is an independent snapshot of the
algorithm state plus the highlights and caption a renderer needs. A Cursor
navigates the trace and a Player advances a cursor on a timer.

# Usage

	eng, err := stepwise.New()
	if err != nil {
		log.Fatal(err)
	}

	c, err := eng.Cursor(ctx, "heap-build", map[string]any{"values": "4,10,3,5,1,2"})
	if err != nil {
		log.Fatal(err)
	}

	r := render.New()
	for {
		out, err := r.Step(algorithms.HeapBuild, c.Current(), c.Len())
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(out)
		if !c.Next() {
			break
		}
	}

Because generation is deterministic, persisted sessions only store the
algorithm, its input and the cursor index; see package session.
*/
package stepwise
