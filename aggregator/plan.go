package aggregator

import "time"

// BatchPlan is the batch size and inter-batch delay governing the next
// stretch of fetches. Batching is client-side admission control: it bounds
// in-flight RPC calls against a rate limiter we do not own.
type BatchPlan struct {
	Size  int
	Delay time.Duration
}

const (
	// softErrorThreshold is the cumulative error count past which the next
	// inter-batch wait doubles.
	softErrorThreshold = 3

	// hardErrorThreshold is the cumulative error count past which batches
	// shrink and the delay grows for good.
	hardErrorThreshold = 6

	// degradeDelayStep is added to the delay each time the plan degrades.
	degradeDelayStep = time.Second

	minBatchSize = 1
)

// InitialPlan picks the starting plan from the number of addresses that need
// fetching. Batch size is inversely related to set size: a large set hammers
// the endpoint for longer, so it gets smaller batches and longer pauses.
func InitialPlan(pending int) BatchPlan {
	switch {
	case pending <= 10:
		return BatchPlan{Size: 5, Delay: 1500 * time.Millisecond}
	case pending <= 30:
		return BatchPlan{Size: 3, Delay: 2 * time.Second}
	default:
		return BatchPlan{Size: 2, Delay: 3 * time.Second}
	}
}

// NextPlan adapts the plan between batches from the cumulative error count.
// Past the hard threshold the batch size shrinks by one (floor 1) and the
// delay grows by a fixed step; the shrink is sticky for all remaining
// batches. Soft-threshold delay doubling is per-wait and applied by the
// caller, not here.
func NextPlan(current BatchPlan, errCount int) BatchPlan {
	if errCount > hardErrorThreshold && current.Size > minBatchSize {
		return BatchPlan{Size: current.Size - 1, Delay: current.Delay + degradeDelayStep}
	}
	return current
}
