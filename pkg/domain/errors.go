package domain

import "errors"

// ErrInvalidInput is returned when a value fails validation at the boundary
// (non-integer, out of range, unknown option).
var ErrInvalidInput = errors.New("invalid input")

// ErrDuplicateValue is returned when a simulator already holds the value.
var ErrDuplicateValue = errors.New("value already exists")

// ErrCapacity is returned when a bounded collection cannot accept more items.
var ErrCapacity = errors.New("maximum items reached")

// ErrOverflow is returned by fixed-size containers on push/enqueue beyond capacity.
var ErrOverflow = errors.New("overflow")

// ErrUnderflow is returned by pop/dequeue on an empty container.
var ErrUnderflow = errors.New("underflow")

// ErrNotFound is returned when a searched value is absent.
var ErrNotFound = errors.New("value not found")

// ErrEmptyTrace is returned when a trace would contain no steps.
var ErrEmptyTrace = errors.New("trace has no steps")

// ErrUnknownAlgorithm is returned when an algorithm kind is not registered.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// ErrUnknownCommand is returned when a navigation command cannot be parsed.
var ErrUnknownCommand = errors.New("unknown command")

// ErrAlreadyRunning is returned when playback is started while a run is active.
var ErrAlreadyRunning = errors.New("playback already running")

// ErrNothingToPlay is returned when playback is started at the last step.
var ErrNothingToPlay = errors.New("already at the last step")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrTopicNotFound is returned when a topic id is not in the catalog.
var ErrTopicNotFound = errors.New("topic not found")

// ErrMissingPatch is returned when a glossary entry has no enrichment patch.
var ErrMissingPatch = errors.New("missing glossary patch")
