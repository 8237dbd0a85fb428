// Package model holds the result shape for C11's periodic surfacing
// pass. Grounded on spec.md §4.11, which names the four counters a
// pass must report.
package model

// Stats is what RunPass returns: the four counters spec.md §4.11 names
// plus the number of expired quarantines the pass released.
type Stats struct {
	JobsProcessed         int
	LinksCreated          int
	LinksSkippedThreshold int
	LinksSkippedExisting  int
	QuarantinesReleased   int
}
