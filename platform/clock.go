package platform

import "time"

// processStart anchors the monotonic clock. time.Since reads the runtime's
// monotonic reading, so NowNanos never goes backwards across wall-clock
// adjustments.
var processStart = time.Now()

// NowNanos returns a monotonic nanosecond timestamp. The epoch is process
// start; only differences between readings are meaningful.
func NowNanos() uint64 {
	return uint64(time.Since(processStart))
}
