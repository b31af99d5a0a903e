package dispatch

// compactCounter tracks repeated per-file statuses while one device bucket
// is printed in compacted simulation output. It resets whenever the status
// changes or a new bucket begins.
type compactCounter struct {
	threshold     int
	currentStatus string
	currentCount  int
	skippedCount  int
}

func newCompactCounter(threshold int) *compactCounter {
	return &compactCounter{threshold: threshold}
}

// resetStatus starts a fresh run of the given status.
func (c *compactCounter) resetStatus(status string) {
	c.currentStatus = status
	c.currentCount = 0
	c.skippedCount = 0
}

func (c *compactCounter) incCurrent() { c.currentCount++ }
func (c *compactCounter) incSkipped() { c.skippedCount++ }

// reachedThreshold reports whether further identical lines are suppressed.
func (c *compactCounter) reachedThreshold() bool {
	return c.currentCount >= c.threshold
}

// hasSkipped reports whether a summary line is owed for suppressed lines.
func (c *compactCounter) hasSkipped() bool {
	return c.skippedCount > 0
}

func (c *compactCounter) sameStatus(status string) bool {
	return c.currentStatus == status
}
