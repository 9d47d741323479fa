package chimelib

import "sort"

// alertSet is the scheduled set: alerts awaiting their trigger time, ordered
// by (scheduled Unix time ascending, token ascending). Uniqueness is on the
// token. It is not safe for concurrent use; the scheduler guards it with its
// own mutex.
//
// The set is a sorted slice with linear token lookup. Fleets are expected to
// stay well under a hundred alerts, so the simple structure wins over a
// balanced tree.
type alertSet struct {
	alerts []*Alert
}

// insert adds an alert at its ordered position. An alert with the same token
// must have been removed first. The sort key is read at insertion time, so
// callers must remove an alert before mutating its scheduled time and
// re-insert it after.
func (s *alertSet) insert(a *Alert) {
	unix, token := a.ScheduledTimeUnix(), a.Token()
	i := sort.Search(len(s.alerts), func(i int) bool {
		iu := s.alerts[i].ScheduledTimeUnix()
		if iu != unix {
			return iu > unix
		}
		return s.alerts[i].Token() > token
	})
	s.alerts = append(s.alerts, nil)
	copy(s.alerts[i+1:], s.alerts[i:])
	s.alerts[i] = a
}

// get returns the alert with the given token, or nil.
func (s *alertSet) get(token string) *Alert {
	for _, a := range s.alerts {
		if a.Token() == token {
			return a
		}
	}
	return nil
}

// remove removes and returns the alert with the given token, or nil if the
// token is not present.
func (s *alertSet) remove(token string) *Alert {
	for i, a := range s.alerts {
		if a.Token() == token {
			s.alerts = append(s.alerts[:i], s.alerts[i+1:]...)
			return a
		}
	}
	return nil
}

// front returns the earliest alert, or nil if the set is empty.
func (s *alertSet) front() *Alert {
	if len(s.alerts) == 0 {
		return nil
	}
	return s.alerts[0]
}

// popFront removes and returns the earliest alert, or nil.
func (s *alertSet) popFront() *Alert {
	if len(s.alerts) == 0 {
		return nil
	}
	a := s.alerts[0]
	s.alerts = s.alerts[1:]
	return a
}

// all returns a copy of the set in order.
func (s *alertSet) all() []*Alert {
	out := make([]*Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

func (s *alertSet) len() int {
	return len(s.alerts)
}

func (s *alertSet) clear() {
	s.alerts = nil
}
