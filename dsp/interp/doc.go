// Package interp provides interpolation primitives used by delay-based DSP
// blocks.
//
// Available kernels, from cheapest to highest quality:
//
//   - [Linear2]:  2-point linear interpolation
//   - [Hermite4]: 4-point cubic Hermite
//
// The [Mode] enum lets delay lines select the kernel at construction time.
// Linear interpolation satisfies the midpoint-mean contract (reading at
// k+0.5 yields the arithmetic mean of the samples at k and k+1) and is the
// right default for static taps; Hermite is preferred for modulated reads.
package interp
