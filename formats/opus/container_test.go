// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"errors"
	"testing"
)

func TestHeader_RoundTrip(t *testing.T) {
	t.Parallel()

	want := header{Channels: 2, PreSkip: 312, SourceRate: 44100, Frames: 441000}
	data := want.append(nil)
	if len(data) != headerSize {
		t.Fatalf("len(header) = %d, want %d", len(data), headerSize)
	}

	got, err := parseHeader(data)
	if err != nil {
		t.Fatalf("parseHeader() error = %v", err)
	}
	if got != want {
		t.Errorf("parseHeader() = %+v, want %+v", got, want)
	}
}

func TestParseHeader_Errors(t *testing.T) {
	t.Parallel()

	valid := header{Channels: 1, SourceRate: 48000}.append(nil)

	badVersion := append([]byte(nil), valid...)
	badVersion[4] = 9

	badChannels := append([]byte(nil), valid...)
	badChannels[5] = 6

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{name: "short", data: valid[:10], want: ErrNotOpusStream},
		{name: "magic", data: append([]byte("RIFF"), valid[4:]...), want: ErrNotOpusStream},
		{name: "version", data: badVersion, want: ErrUnsupportedVersion},
		{name: "channels", data: badChannels, want: ErrUnsupportedChannels},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := parseHeader(tt.data); !errors.Is(err, tt.want) {
				t.Errorf("parseHeader() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPackets(t *testing.T) {
	t.Parallel()

	var body []byte
	body = appendPacket(body, []byte{1, 2, 3})
	body = appendPacket(body, nil)
	body = appendPacket(body, []byte{4})

	got, frames, err := packets(body)
	if err != nil {
		t.Fatalf("packets() error = %v", err)
	}
	if len(got) != 3 || len(got[0]) != 3 || len(got[1]) != 0 || got[2][0] != 4 {
		t.Errorf("packets() = %v", got)
	}
	if frames != -1 {
		t.Errorf("packets() frames = %d, want -1 without a trailer", frames)
	}

	if _, _, err := packets(body[:len(body)-1]); !errors.Is(err, ErrTruncated) {
		t.Errorf("packets(truncated) error = %v, want %v", err, ErrTruncated)
	}
	if _, _, err := packets([]byte{7}); !errors.Is(err, ErrTruncated) {
		t.Errorf("packets(one byte) error = %v, want %v", err, ErrTruncated)
	}
}

func TestPackets_Trailer(t *testing.T) {
	t.Parallel()

	body := appendPacket(nil, []byte{1, 2})
	body = appendTrailer(body, 44100)

	got, frames, err := packets(body)
	if err != nil {
		t.Fatalf("packets() error = %v", err)
	}
	if len(got) != 1 || frames != 44100 {
		t.Errorf("packets() = %d packets, %d frames, want 1, 44100", len(got), frames)
	}

	if _, _, err := packets(body[:len(body)-3]); !errors.Is(err, ErrTruncated) {
		t.Errorf("packets(short trailer) error = %v, want %v", err, ErrTruncated)
	}
	if _, _, err := packets(appendPacket(body, []byte{9})); !errors.Is(err, ErrTruncated) {
		t.Errorf("packets(data after trailer) error = %v, want %v", err, ErrTruncated)
	}
}

func TestSniffer(t *testing.T) {
	t.Parallel()

	if !(Sniffer{}).Sniff(header{Channels: 2}.append(nil)) {
		t.Error("Sniff(header) = false, want true")
	}
	if (Sniffer{}).Sniff([]byte("OggS")) {
		t.Error("Sniff(OggS) = true, want false")
	}
}
