// Package wheel implements the selection wheel: the entry list, the palette
// registry, the spin engine that picks a winner and computes the resting
// rotation, and the session that drives a spin from start to dismissal.
package wheel
