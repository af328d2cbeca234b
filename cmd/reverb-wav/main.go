// Command reverb-wav applies a plate reverb to a WAV file.
//
// Usage:
//
//	reverb-wav -decay 0.6 -wet 0.4 input.wav output.wav
//	reverb-wav -predelay 80 -damping 0.3 -tail 2 input.wav output.wav
//
// Each channel gets its own engine instance; the -tail flag appends silence
// so the reverberant tail can ring out past the end of the input.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-reverb/dsp/core"
	"github.com/cwbudde/algo-reverb/dsp/effects/reverb"
)

const (
	defaultBlockSize = 4096
	minRequiredArgs  = 2

	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0

	wavPCMFormat = 1
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	preDelay := flag.Float64("predelay", 50, "Pre-delay in milliseconds")
	decay := flag.Float64("decay", 0.5, "Decay rate in [0, 1)")
	damping := flag.Float64("damping", 0.005, "High-frequency damping in [0, 1]")
	cutoff := flag.Float64("cutoff", 16000, "Input low-pass cutoff in Hz")
	wet := flag.Float64("wet", 0.65, "Wet level in [0, 1]")
	dry := flag.Float64("dry", 0.35, "Dry level in [0, 1]")
	excursionDepth := flag.Float64("excursion", 0, "Excursion depth in samples (0 disables modulation)")
	excursionRate := flag.Float64("excursion-rate", 0.5, "Excursion rate in Hz")
	tailSeconds := flag.Float64("tail", 1, "Seconds of silence appended so the tail rings out")
	block := flag.Int("block", defaultBlockSize, "Processing block size in frames")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav output.wav\n\nOptions:\n", os.Args[0])
		flag.PrintDefaults()
		return fmt.Errorf("insufficient arguments")
	}
	inputPath := args[0]
	outputPath := args[1]

	params := reverb.DefaultParams()
	params.PreDelayMS = *preDelay
	params.DecayRate = *decay
	params.Damping = *damping
	params.LowPassCutoffHz = *cutoff
	params.WetLevel = *wet
	params.DryLevel = *dry
	params.ExcursionDepth = *excursionDepth
	params.ExcursionRateHz = *excursionRate

	start := time.Now()
	stats, err := processWAV(inputPath, outputPath, params, *tailSeconds, *block, *verbose)
	if err != nil {
		return err
	}

	fmt.Printf("Reverberated %s -> %s\n", filepath.Base(inputPath), filepath.Base(outputPath))
	fmt.Printf("  %d Hz, %d channels, %d-bit\n", stats.rate, stats.channels, stats.bitDepth)
	fmt.Printf("  %d samples in -> %d samples out (%.2fs)\n",
		stats.inputSamples, stats.outputSamples, time.Since(start).Seconds())
	return nil
}

type processStats struct {
	rate          int
	channels      int
	bitDepth      int
	inputSamples  int64
	outputSamples int64
}

func processWAV(inputPath, outputPath string, params reverb.Params, tailSeconds float64, blockFrames int, verbose bool) (stats *processStats, err error) {
	inputFile, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = inputFile.Close() }()

	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file: %s", inputPath)
	}

	format := decoder.Format()
	rate := format.SampleRate
	channels := format.NumChannels
	bitDepth := int(decoder.BitDepth)
	if verbose {
		log.Printf("Input format: %d Hz, %d channels, %d-bit", rate, channels, bitDepth)
	}

	engines := make([]*reverb.Dattorro, channels)
	for ch := range engines {
		engines[ch], err = reverb.New(float64(rate), params)
		if err != nil {
			return nil, fmt.Errorf("failed to create reverb for channel %d: %w", ch, err)
		}
	}

	outputFile, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	encoder := wav.NewEncoder(outputFile, rate, bitDepth, channels, wavPCMFormat)
	defer func() {
		if closeErr := encoder.Close(); err == nil {
			err = closeErr
		}
		if closeErr := outputFile.Close(); err == nil {
			err = closeErr
		}
	}()

	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(float64(rate)),
		core.WithBlockSize(blockFrames),
	)

	maxVal := maxValueFor(bitDepth)
	intBuf := &audio.IntBuffer{
		Data:           make([]int, cfg.BlockSize*channels),
		Format:         format,
		SourceBitDepth: bitDepth,
	}
	in := make([][]float64, channels)
	out := make([][]float64, channels)
	for ch := range in {
		in[ch] = make([]float64, cfg.BlockSize)
		out[ch] = make([]float64, cfg.BlockSize)
	}

	stats = &processStats{rate: rate, channels: channels, bitDepth: bitDepth}

	for {
		intBuf.Data = intBuf.Data[:cap(intBuf.Data)]
		n, readErr := decoder.PCMBuffer(intBuf)
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("failed to read audio data: %w", readErr)
		}
		if n == 0 {
			break
		}
		frames := n / channels
		stats.inputSamples += int64(frames)

		deinterleave(intBuf.Data[:n], in, channels, frames, 1/maxVal)
		for ch, eng := range engines {
			eng.Execute(in[ch][:frames], out[ch][:frames], params)
		}
		interleave(out, intBuf.Data, channels, frames, maxVal)

		intBuf.Data = intBuf.Data[:frames*channels]
		if err := encoder.Write(intBuf); err != nil {
			return nil, fmt.Errorf("failed to write audio data: %w", err)
		}
		stats.outputSamples += int64(frames)
	}

	// Ring out: feed silence so the tail decays inside the file.
	tailFrames := int(tailSeconds * float64(rate))
	for ch := range in {
		core.Zero(in[ch])
	}
	for tailFrames > 0 {
		frames := cfg.BlockSize
		if tailFrames < frames {
			frames = tailFrames
		}
		for ch, eng := range engines {
			eng.Execute(in[ch][:frames], out[ch][:frames], params)
		}
		interleave(out, intBuf.Data[:cap(intBuf.Data)], channels, frames, maxVal)

		intBuf.Data = intBuf.Data[:frames*channels]
		if err := encoder.Write(intBuf); err != nil {
			return nil, fmt.Errorf("failed to write tail data: %w", err)
		}
		stats.outputSamples += int64(frames)
		tailFrames -= frames
	}

	return stats, nil
}

func maxValueFor(bitDepth int) float64 {
	switch bitDepth {
	case 24:
		return maxInt24
	case 32:
		return maxInt32
	default:
		return maxInt16
	}
}

// deinterleave converts interleaved int samples into per-channel floats in
// [-1, 1] using preallocated buffers.
func deinterleave(data []int, dst [][]float64, channels, frames int, invMaxVal float64) {
	for i := 0; i < frames; i++ {
		base := i * channels
		for ch := 0; ch < channels; ch++ {
			dst[ch][i] = float64(data[base+ch]) * invMaxVal
		}
	}
}

// interleave converts per-channel floats back to interleaved ints, clamping
// to full scale.
func interleave(src [][]float64, dst []int, channels, frames int, maxVal float64) {
	for i := 0; i < frames; i++ {
		base := i * channels
		for ch := 0; ch < channels; ch++ {
			sample := src[ch][i]
			if sample > 1 {
				sample = 1
			} else if sample < -1 {
				sample = -1
			}
			dst[base+ch] = int(sample * maxVal)
		}
	}
}
