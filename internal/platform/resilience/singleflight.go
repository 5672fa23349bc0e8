package resilience

import "golang.org/x/sync/singleflight"

// SingleFlight deduplicates concurrent calls for the same key. The
// zero value is ready to use.
type SingleFlight struct {
	group singleflight.Group
}

// Do runs fn once per key at a time. Callers arriving while a call is
// in flight wait for it and share its result; shared reports whether
// the result came from another caller's invocation.
func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	return g.group.Do(key, fn)
}
