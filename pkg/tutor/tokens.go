package tutor

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

const defaultEncoding = "cl100k_base"

// Meter counts tokens with a BPE encoding.
type Meter struct {
	enc *tiktoken.Tiktoken
}

// NewMeter loads encoding (cl100k_base when empty). Loading may fetch the BPE
// ranks on first use, so callers treat a failure as "no meter".
func NewMeter(encoding string) (*Meter, error) {
	if encoding == "" {
		encoding = defaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load token encoding %q: %w", encoding, err)
	}
	return &Meter{enc: enc}, nil
}

func (m *Meter) Count(text string) int {
	if m == nil || m.enc == nil {
		return 0
	}
	return len(m.enc.Encode(text, nil, nil))
}
