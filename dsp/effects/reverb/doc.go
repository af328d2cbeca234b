// Package reverb implements a Dattorro-style plate reverberator.
//
// The signal path is: fractional pre-delay, input low-pass, a cascade of
// all-pass input diffusers, then two cross-coupled feedback-tail channels
// (decay diffuser, modulated feedback delay, damping, decay diffuser, post
// delay). The wet sum of six tail taps is mixed with the dry input.
//
// The delay network is described by a Topology value, so the engine runs at
// any sample rate and alternative plate tunings are plain data. Control
// changes arrive as a Params snapshot per block and are smoothed or clamped
// internally; Execute never allocates and never fails.
package reverb
