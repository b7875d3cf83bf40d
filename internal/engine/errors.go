package engine

import "errors"

var (
	// ErrTornDown is returned by every operation after Teardown or Stop.
	ErrTornDown = errors.New("engine: scene torn down")

	// ErrNoScene indicates the scheduler was started before any
	// configuration was applied.
	ErrNoScene = errors.New("engine: no scene built")
)
