package cache

import "time"

// DefaultPolicy applies when helpful_cache_time is unset or unknown.
const DefaultPolicy = "minute"

var policies = map[string]time.Duration{
	"none":   0,
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
	"week":   7 * 24 * time.Hour,
	"month":  30 * 24 * time.Hour,
	"year":   365 * 24 * time.Hour,
}

// TTL resolves a named cache-time policy. A zero TTL stores entries without
// expiry; unknown names fall back to DefaultPolicy.
func TTL(name string) time.Duration {
	if d, ok := policies[name]; ok {
		return d
	}
	return policies[DefaultPolicy]
}

// Policies lists the accepted policy names.
func Policies() []string {
	return []string{"none", "minute", "hour", "day", "week", "month", "year"}
}
