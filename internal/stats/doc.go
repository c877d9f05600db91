// Package stats holds the pure aggregation core: calendar bucketing of vote
// events per reporting period, percentage math and net-score rankings.
//
// Nothing here performs I/O. Every "now"-dependent function takes the current
// time as an argument so results are deterministic for a fixed clock.
package stats
