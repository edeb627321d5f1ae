// SPDX-License-Identifier: EPL-2.0

package fx

import (
	"fmt"
	"strings"
)

// PresetID names one entry of the catalog.
type PresetID string

const (
	Clean        PresetID = "clean"
	BassBoost    PresetID = "bass_boost"
	Nightcore    PresetID = "nightcore"
	Lofi         PresetID = "lofi"
	EchoChamber  PresetID = "echo_chamber"
	Reverb       PresetID = "reverb"
	Surround     PresetID = "surround"
	VinylCrackle PresetID = "vinyl_crackle"
	PitchShift   PresetID = "pitch_shift"
	SlowReverb   PresetID = "slow_reverb"
	Crystalizer  PresetID = "crystalizer"
	TrapBass     PresetID = "trap_bass"
	Reverse      PresetID = "reverse"
	Vaporwave    PresetID = "vaporwave"
	Chiptune     PresetID = "chiptune"
	Tremolo      PresetID = "tremolo"
	Flanger      PresetID = "flanger"
	Chorus       PresetID = "chorus"
	StereoWiden  PresetID = "stereo_widen"
)

// aliases maps retired identifiers still found in saved history.
var aliases = map[string]PresetID{
	"reverb_htrk": Reverb,
}

// ParsePreset resolves s, ignoring case and surrounding space, to a known
// identifier.
func ParsePreset(s string) (PresetID, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if id, ok := aliases[key]; ok {
		return id, nil
	}

	id := PresetID(key)
	if _, ok := catalogIndex[id]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidPreset, s)
	}

	return id, nil
}

// Valid reports whether id is in the catalog.
func (id PresetID) Valid() bool {
	_, ok := catalogIndex[id]
	return ok
}

func (id PresetID) String() string { return string(id) }

// UnmarshalText accepts the same spellings as ParsePreset.
func (id *PresetID) UnmarshalText(b []byte) error {
	v, err := ParsePreset(string(b))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

func (id PresetID) MarshalText() ([]byte, error) {
	return []byte(id), nil
}
