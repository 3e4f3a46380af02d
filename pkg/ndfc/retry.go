package ndfc

import (
	"math/rand"
	"time"

	"github.com/go-logr/logr"
)

// BackoffPolicy implements a backoff policy, randomizing its delays
// and saturating at the final value in Millis.
type BackoffPolicy struct {
	Millis []int
}

// DefaultBackoff is a backoff policy ranging up to 3 seconds.
var DefaultBackoff = BackoffPolicy{
	[]int{0, 100, 100, 500, 500, 3000},
}

// Duration returns the time duration of the n'th wait cycle in a
// backoff policy. This is b.Millis[n], randomized to avoid thundering
// herds.
func (b BackoffPolicy) Duration(n int) time.Duration {
	if n >= len(b.Millis) {
		n = len(b.Millis) - 1
	}

	return time.Duration(jitter(b.Millis[n])) * time.Millisecond
}

// jitter returns a random integer uniformly distributed in the range
// [0.5 * millis .. 1.5 * millis]
func jitter(millis int) int {
	if millis == 0 {
		return 0
	}

	return millis/2 + rand.Intn(millis)
}

// RetrySender wraps a Sender with a bounded retry loop. Transport errors
// and retryable controller rejections are retried up to attempts times;
// non-retryable return codes come back to the caller immediately.
type RetrySender struct {
	next     Sender
	policy   BackoffPolicy
	attempts int
	log      logr.Logger
	sleep    func(time.Duration)
}

func NewRetrySender(next Sender, attempts int, log logr.Logger) *RetrySender {
	return &RetrySender{
		next:     next,
		policy:   DefaultBackoff,
		attempts: attempts,
		log:      log,
		sleep:    time.Sleep,
	}
}

func (s *RetrySender) Send(verb, path string, payload interface{}) (*Response, error) {
	var (
		resp *Response
		err  error
	)

	for attempt := 0; attempt < s.attempts; attempt++ {
		if attempt > 0 {
			s.sleep(s.policy.Duration(attempt - 1))
		}

		resp, err = s.next.Send(verb, path, payload)
		if err != nil {
			s.log.V(1).Info("request failed, retrying", "verb", verb, "path", path, "error", err.Error())
			continue
		}
		if resp.OK() || NonRetryable(resp.ReturnCode) {
			return resp, nil
		}
		s.log.V(1).Info("request rejected, retrying", "verb", verb, "path", path, "code", resp.ReturnCode)
	}

	return resp, err
}
