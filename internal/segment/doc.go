// Package segment computes exact per-track millisecond ranges for a vinyl
// side from its probed duration and the ordered track start offsets.
//
// All arithmetic is integral; adjacent ranges share their boundary value.
package segment
