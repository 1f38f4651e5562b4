/*
Package domain contains the core domain models shared by the stepwise tracer.

It defines the vocabulary every other package speaks: navigation Commands,
persisted cursor Sessions, lifecycle events and the sentinel errors. This
package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - Command: A reducer-style navigation request (next, prev, seek, reset).
  - Session: A persisted cursor position over a reproducible trace.
  - LifecycleHooks: Observability callbacks for generation, navigation and playback.
*/
package domain
