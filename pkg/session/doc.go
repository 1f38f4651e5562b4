/*
Package session implements cursor session management and persistence orchestration.

A session stores only an algorithm, its input and a cursor index. Because trace
generation is deterministic, the Manager rebuilds the trace and cursor on every
Open and Apply. Operations on one session id are serialized with ref-counted
local locks and, when configured, a distributed lock shared across replicas.
*/
package session
