// SPDX-License-Identifier: EPL-2.0

// Package analysis exposes snapshots of the signal leaving the live graph.
//
// A Tap sits between the effect chain and the output gain. The audio thread
// only appends to a ring buffer under a short lock; visualisers poll
// TimeDomainData and FrequencyData at their own pace. The spectrum uses a
// Blackman window and github.com/mjibson/go-dsp for the transform.
package analysis
