// SPDX-License-Identifier: EPL-2.0

package history

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ik5/audfx/fx"
)

// Item records one export.
type Item struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Preset fx.PresetID `json:"effect"`
	Params fx.Params   `json:"params"`
	Date   time.Time   `json:"date"`
	// Format is the encoder name, such as "opus" or "wav".
	Format string `json:"format,omitempty"`
	// Payload is the exported file as a base64 data URL. Only the most
	// recent items keep it.
	Payload string `json:"payload,omitempty"`
}

// NewID derives an identifier from t, in milliseconds since the epoch.
func NewID(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// legacyItem is the layout written before items carried a format. The
// payload was stored under "mp3".
type legacyItem struct {
	Item
	MP3 string `json:"mp3,omitempty"`
}

func (l legacyItem) item() Item {
	it := l.Item
	if it.Payload == "" {
		it.Payload = l.MP3
	}
	return it
}

// DataURL encodes data as a base64 data URL of the given MIME type.
func DataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURL reverses DataURL.
func ParseDataURL(s string) (mimeType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidDataURL
	}
	mimeType, ok = strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("%w: payload is not base64", ErrInvalidDataURL)
	}

	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidDataURL, err)
	}
	return mimeType, data, nil
}
