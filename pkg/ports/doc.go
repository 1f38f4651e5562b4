/*
Package ports defines the driven ports (interfaces) for the Stepwise engine.

These interfaces decouple the core logic from external implementations, allowing
the engine to work with various storage backends and trace sources.

# Key Interfaces

  - TraceSource: Produces (possibly cached) traces for an algorithm and its raw input.
  - SessionStore: Responsible for persisting and loading cursor Sessions.
  - DistributedLocker: Provides distributed locking for handling concurrent session access.
*/
package ports
