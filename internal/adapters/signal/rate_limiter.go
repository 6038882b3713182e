package signal

import "golang.org/x/time/rate"

// newConnLimiter caps inbound messages per connection. A non-positive rate
// disables the limit.
func newConnLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = int(perSecond)
		if burst < 1 {
			burst = 1
		}
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

func (c *WsSignalConn) allow() bool {
	return c.limiter == nil || c.limiter.Allow()
}
