package model

import "time"

// DateRange is a possibly half-open interval of calendar dates. A nil bound
// is unbounded and never violates containment.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// Inverted reports whether both bounds are set and end precedes start.
func (r DateRange) Inverted() bool {
	return r.Start != nil && r.End != nil && r.End.Before(*r.Start)
}

// Within reports whether r nests inside parent. Each bound is only compared
// when it is specified on both sides.
func (r DateRange) Within(parent DateRange) bool {
	if r.Start != nil && parent.Start != nil && r.Start.Before(*parent.Start) {
		return false
	}
	if r.End != nil && parent.End != nil && r.End.After(*parent.End) {
		return false
	}
	return true
}

// Union widens r to also cover other, per bound: the earlier start and the
// later end win, a nil bound on one side keeps the other side's value.
func (r DateRange) Union(other DateRange) DateRange {
	out := r
	if other.Start != nil && (out.Start == nil || other.Start.Before(*out.Start)) {
		out.Start = other.Start
	}
	if other.End != nil && (out.End == nil || other.End.After(*out.End)) {
		out.End = other.End
	}
	return out
}
