package sim

import (
	"sort"

	"github.com/kyleas/thermoflow-sub000/core"
)

type event struct {
	t     float64
	value float64
}

// insertEvent keeps the series sorted by time. A duplicate time replaces
// the earlier value.
func insertEvent(events []event, e event) []event {
	i := sort.Search(len(events), func(k int) bool { return events[k].t >= e.t })
	if i < len(events) && events[i].t == e.t {
		events[i] = e
		return events
	}
	events = append(events, event{})
	copy(events[i+1:], events[i:])
	events[i] = e

	return events
}

// lastEventValue returns the value of the last event at or before t.
func lastEventValue(events []event, t float64) (float64, bool) {
	var (
		v  float64
		ok bool
	)
	for _, e := range events {
		if e.t > t {
			break
		}
		v, ok = e.value, true
	}

	return v, ok
}

// Schedule holds time-indexed step overrides applied during a transient
// run: each override takes effect at its event time and holds until the
// next event on the same target.
type Schedule struct {
	valve               map[core.CompID][]event
	boundaryPressure    map[core.NodeID][]event
	boundaryTemperature map[core.NodeID][]event
}

// NewSchedule returns an empty schedule.
func NewSchedule() *Schedule {
	return &Schedule{
		valve:               make(map[core.CompID][]event),
		boundaryPressure:    make(map[core.NodeID][]event),
		boundaryTemperature: make(map[core.NodeID][]event),
	}
}

// SetValvePosition commands component comp to position pos at time t.
// Positions are clamped to [0,1] by the valve itself.
func (s *Schedule) SetValvePosition(comp core.CompID, t, pos float64) {
	s.valve[comp] = insertEvent(s.valve[comp], event{t: t, value: pos})
}

// SetBoundaryPressure overrides the pressure boundary on node at time t.
func (s *Schedule) SetBoundaryPressure(node core.NodeID, t, pa float64) {
	s.boundaryPressure[node] = insertEvent(s.boundaryPressure[node], event{t: t, value: pa})
}

// SetBoundaryTemperature overrides the temperature boundary on node at
// time t.
func (s *Schedule) SetBoundaryTemperature(node core.NodeID, t, k float64) {
	s.boundaryTemperature[node] = insertEvent(s.boundaryTemperature[node], event{t: t, value: k})
}

// ValvePosition returns the commanded position in effect at time t.
func (s *Schedule) ValvePosition(comp core.CompID, t float64) (float64, bool) {
	return lastEventValue(s.valve[comp], t)
}

// BoundaryPressure returns the pressure override in effect at time t.
func (s *Schedule) BoundaryPressure(node core.NodeID, t float64) (float64, bool) {
	return lastEventValue(s.boundaryPressure[node], t)
}

// BoundaryTemperature returns the temperature override in effect at
// time t.
func (s *Schedule) BoundaryTemperature(node core.NodeID, t float64) (float64, bool) {
	return lastEventValue(s.boundaryTemperature[node], t)
}
