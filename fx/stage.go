// SPDX-License-Identifier: EPL-2.0

package fx

// Stage processes blocks of stereo frames in place.
//
// channels tells the stage how many of the two slots carry signal. A mono
// block always holds the same value in both slots, and every stage keeps
// that true for the blocks it emits.
type Stage interface {
	Process(buf [][2]float64, channels int)
	// OutChannels is the channel count Process emits for an input of in.
	OutChannels(in int) int
	Describe() string
}

// Stoppable is a self-running source owned by a graph, such as an LFO or
// a looping noise buffer. Stopping twice returns ErrAlreadyStopped.
type Stoppable interface {
	Stop() error
}

// latencyReporter is implemented by stages that delay their output.
type latencyReporter interface {
	Latency() int
}

// sourceOwner is implemented by stages that drive themselves from an Oscillator.
type sourceOwner interface {
	Sources() []Stoppable
}

// perChannel runs fn over each live channel and restores the mono invariant.
func perChannel(buf [][2]float64, channels int, fn func(c int, x float64) float64) {
	if channels == 1 {
		for i := range buf {
			y := fn(0, buf[i][0])
			buf[i] = [2]float64{y, y}
		}
		return
	}

	for i := range buf {
		buf[i][0] = fn(0, buf[i][0])
		buf[i][1] = fn(1, buf[i][1])
	}
}

// downmix folds a frame to mono with the speaker rule 0.5·(L+R).
func downmix(f [2]float64, channels int) float64 {
	if channels == 1 {
		return f[0]
	}
	return 0.5 * (f[0] + f[1])
}
