package perceval

import (
	"regexp"
	"strconv"
	"time"
)

const tailLimit = 8 * 1024

// tailBuffer keeps the last limit bytes written to it. The collector's
// stderr can be large; only the end matters for failure classification.
type tailBuffer struct {
	limit int
	buf   []byte
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{limit: limit}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if len(t.buf) > t.limit {
		t.buf = t.buf[len(t.buf)-t.limit:]
	}
	return len(p), nil
}

func (t *tailBuffer) Bytes() []byte {
	return t.buf
}

var (
	rateLimitMarker = regexp.MustCompile(`(?i)rate limit`)

	// The providers phrase the reset differently; both name seconds.
	resetPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+) seconds? to reset`),
		regexp.MustCompile(`(?i)reset in (\d+) seconds?`),
	}
)

// rateLimitDelay reports whether the stderr tail names a provider rate
// limit, and for how long to park the token. The fallback is used when
// the message carries no reset time.
func rateLimitDelay(tail []byte, fallback time.Duration) (time.Duration, bool) {
	if !rateLimitMarker.Match(tail) {
		return 0, false
	}
	for _, pattern := range resetPatterns {
		m := pattern.FindSubmatch(tail)
		if m == nil {
			continue
		}
		secs, err := strconv.Atoi(string(m[1]))
		if err != nil || secs <= 0 {
			continue
		}
		return time.Duration(secs) * time.Second, true
	}
	return fallback, true
}
