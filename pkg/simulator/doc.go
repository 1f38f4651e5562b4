// Package simulator provides small interactive data structures for
// hands-on practice: a fixed-capacity stack, a circular queue, a
// linear-probing hash table, a bounded min-heap and a BST set.
//
// Each structure is driven reducer style through Apply. A rejected action
// (overflow, underflow, duplicate, bad value) returns an error and leaves the
// structure unchanged.
package simulator
