// Package spectrum provides magnitude helpers for complex spectrum bins.
//
// It is FFT-backend agnostic: callers run their own transform (algo-fft in
// this module's tests) and hand the bins here for magnitude extraction. The
// reverberator uses it to verify all-pass flatness and to analyze tails.
package spectrum
