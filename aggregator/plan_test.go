package aggregator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInitialPlanScalesInverselyWithSetSize(t *testing.T) {
	small := InitialPlan(8)
	assert.Equal(t, 5, small.Size)
	assert.Equal(t, 1500*time.Millisecond, small.Delay)

	medium := InitialPlan(20)
	assert.Equal(t, 3, medium.Size)
	assert.Equal(t, 2*time.Second, medium.Delay)

	large := InitialPlan(100)
	assert.Equal(t, 2, large.Size)
	assert.Equal(t, 3*time.Second, large.Delay)

	assert.Greater(t, small.Size, medium.Size)
	assert.Greater(t, medium.Size, large.Size)
	assert.Less(t, small.Delay, medium.Delay)
}

func TestNextPlanDegradesPastHardThreshold(t *testing.T) {
	plan := BatchPlan{Size: 3, Delay: 2 * time.Second}

	// At or below the hard threshold nothing changes.
	assert.Equal(t, plan, NextPlan(plan, 0))
	assert.Equal(t, plan, NextPlan(plan, hardErrorThreshold))

	degraded := NextPlan(plan, hardErrorThreshold+1)
	assert.Equal(t, 2, degraded.Size)
	assert.Equal(t, 2*time.Second+degradeDelayStep, degraded.Delay)

	// Repeated degradation bottoms out at a batch size of one.
	degraded = NextPlan(degraded, hardErrorThreshold+10)
	assert.Equal(t, 1, degraded.Size)
	again := NextPlan(degraded, hardErrorThreshold+20)
	assert.Equal(t, degraded, again)
}
