package domain

// Field constants for mapstructure and JSON standardization.
const (
	// KeyAlgorithm is the field name carrying the algorithm kind in requests and sessions.
	KeyAlgorithm = "algorithm"

	// KeyInput is the field name carrying the generator input.
	KeyInput = "input"
)

// Input bounds used by the interactive simulators.
const (
	MinValue = 1
	MaxValue = 999
)
