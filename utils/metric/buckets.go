// Copyright (C) 2019-2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metric

import "time"

// QueueDelayBuckets are nanosecond buckets for how long a message waits in an
// outbound queue. Waits past the default outbound queue timeout share the last
// bucket.
var QueueDelayBuckets = []float64{
	float64(100 * time.Microsecond),
	float64(time.Millisecond),
	float64(10 * time.Millisecond),
	float64(100 * time.Millisecond),
	float64(time.Second),
	float64(5 * time.Second),
	float64(30 * time.Second),
}
