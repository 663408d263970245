package aggregator

import "github.com/VictoriaMetrics/metrics"

// Counters exported on the metrics listener (see api/httpserver). Retries
// show up as the gap between attempts and the number of tracked auctions.
var (
	fetchAttempts = metrics.NewCounter("auction_fetch_attempts_total")
	fetchFailures = metrics.NewCounter("auction_fetch_failures_total")
	cacheHits     = metrics.NewCounter("auction_cache_hits_total")
)
