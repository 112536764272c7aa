package protocol

import (
	"fmt"
	"strings"
)

// EventKind classifies trace events.
type EventKind int

const (
	ResetReleased EventKind = iota
	CaseAnnounced
	BodyStarted
	DoneSet
	ClocksStopped
	ProcessEnded
)

func (k EventKind) String() string {
	switch k {
	case ResetReleased:
		return "reset-released"
	case CaseAnnounced:
		return "case-announced"
	case BodyStarted:
		return "body-started"
	case DoneSet:
		return "done-set"
	case ClocksStopped:
		return "clocks-stopped"
	case ProcessEnded:
		return "process-ended"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is one observable action of the simulated protocol. Events are
// recorded when the action executes; the signal change it causes becomes
// visible one delta later.
type Event struct {
	Time    Time
	Delta   int
	Process string
	Kind    EventKind

	// Case is the case index, or -1.
	Case int
}

func (e Event) String() string {
	return fmt.Sprintf("%s+%d %s %s %d", e.Time, e.Delta, e.Process, e.Kind, e.Case)
}

// Trace is the result of Simulate.
type Trace struct {
	Events []Event

	// End is the time of the last activity.
	End Time

	// Blocked names the processes that never reached a final wait.
	Blocked []string

	// Truncated is set when the activity limit was reached.
	Truncated bool
}

// Filter returns the events of kind k in order.
func (t *Trace) Filter(k EventKind) []Event {
	var out []Event
	for _, e := range t.Events {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

const (
	sigRunning  = "TbRunning"
	sigNextCase = "NextCase"
	sigDone     = "ProcessDone"

	// defaultHalfPeriod stands in for clocks whose freq is not a number.
	defaultHalfPeriod = 5 * Nanosecond

	maxCycles = 1_000_000
)

type update struct {
	sig   string
	bit   int // -1 assigns the whole value
	value int
}

type wait struct {
	sens    []string
	until   func() bool
	timed   bool
	at      Time
	forever bool
	stuck   bool
}

type actor struct {
	name string
	run  func() wait
	w    wait
}

type sim struct {
	now     Time
	delta   int
	values  map[string]int
	pending []update
	actors  []*actor
	trace   *Trace
}

// Simulate executes plan under VHDL delta-cycle semantics: every process
// runs until its next wait, signal assignments take effect once all
// processes have suspended, and "wait until" resumes only on an event of a
// signal it reads. The case procedures of different processes take
// different times, so processes complete a case one after another.
func Simulate(plan *Plan) *Trace {
	s := &sim{values: make(map[string]int), trace: &Trace{}}
	s.values[sigRunning] = 1
	s.values[sigNextCase] = -1
	s.values[sigDone] = 0

	clocks := make(map[string]*driver)
	for _, c := range plan.Clocks {
		if !c.LowActive {
			s.values[c.Port] = 1
		}
		d := s.clock(c)
		clocks[strings.ToLower(c.Port)] = d
		s.actors = append(s.actors, d.actor)
	}
	for _, r := range plan.Resets {
		s.values[r.Port] = 1
		s.actors = append(s.actors, s.reset(r, clocks[strings.ToLower(r.Clock)]))
	}
	all := 1<<len(plan.Processes) - 1
	s.actors = append(s.actors, s.process(plan.Control, plan, all))
	for _, p := range plan.Processes {
		s.actors = append(s.actors, s.process(p, plan, all))
	}

	for _, a := range s.actors {
		s.resume(a)
	}

	for cycle := 0; ; cycle++ {
		if cycle >= maxCycles {
			s.trace.Truncated = true
			break
		}
		if changed := s.apply(); len(changed) > 0 {
			s.delta++
			for _, a := range s.actors {
				if s.wakes(a.w, changed) {
					s.resume(a)
				}
			}
			continue
		}
		next, ok := s.nextTimed()
		if !ok {
			break
		}
		s.now, s.delta = next, 0
		for _, a := range s.actors {
			if !a.w.forever && a.w.timed && a.w.at == next {
				s.resume(a)
			}
		}
	}

	s.trace.End = s.now
	for _, a := range s.actors {
		if !a.w.forever || a.w.stuck {
			s.trace.Blocked = append(s.trace.Blocked, a.name)
		}
	}
	return s.trace
}

func (s *sim) resume(a *actor) {
	a.w = a.run()
}

func (s *sim) emit(process string, kind EventKind, c int) {
	s.trace.Events = append(s.trace.Events, Event{Time: s.now, Delta: s.delta, Process: process, Kind: kind, Case: c})
}

func (s *sim) assign(sig string, value int) {
	s.pending = append(s.pending, update{sig: sig, bit: -1, value: value})
}

func (s *sim) assignBit(sig string, bit, value int) {
	s.pending = append(s.pending, update{sig: sig, bit: bit, value: value})
}

// apply commits pending assignments and returns the signals whose value
// changed.
func (s *sim) apply() map[string]bool {
	changed := make(map[string]bool)
	for _, u := range s.pending {
		old := s.values[u.sig]
		v := u.value
		if u.bit >= 0 {
			v = old &^ (1 << u.bit)
			if u.value != 0 {
				v |= 1 << u.bit
			}
		}
		if v != old {
			s.values[u.sig] = v
			changed[u.sig] = true
		}
	}
	s.pending = s.pending[:0]
	return changed
}

func (s *sim) wakes(w wait, changed map[string]bool) bool {
	if w.forever || w.timed {
		return false
	}
	for _, sig := range w.sens {
		if changed[sig] {
			return w.until == nil || w.until()
		}
	}
	return false
}

func (s *sim) nextTimed() (Time, bool) {
	var next Time
	found := false
	for _, a := range s.actors {
		if a.w.forever || !a.w.timed {
			continue
		}
		if !found || a.w.at < next {
			next, found = a.w.at, true
		}
	}
	return next, found
}

// driver is a clock process. It toggles only while a reset counts its
// edges; otherwise it idles until the clocks stop and its value follows
// the period without events, since no process observes it.
type driver struct {
	actor    *actor
	port     string
	half     Time
	watchers int
	running  bool

	// since is the start of the current idle span.
	since Time
}

func (s *sim) clock(c Clock) *driver {
	d := &driver{port: c.Port, half: c.HalfPeriod}
	if d.half <= 0 {
		d.half = defaultHalfPeriod
	}
	name := "clock_" + c.Port
	d.actor = &actor{name: name, run: func() wait {
		if d.running {
			s.assign(d.port, 1-s.values[d.port])
		}
		if s.values[sigRunning] == 0 {
			s.emit(name, ProcessEnded, -1)
			return wait{forever: true}
		}
		if d.watchers == 0 {
			d.running, d.since = false, s.now
			return wait{sens: []string{sigRunning}, until: func() bool { return s.values[sigRunning] == 0 }}
		}
		d.running = true
		return wait{timed: true, at: s.now + d.half}
	}}
	return d
}

// watch resumes toggling d in phase with the edges it skipped while idle.
func (s *sim) watch(d *driver) {
	d.watchers++
	if d.running {
		return
	}
	elapsed := s.now - d.since
	skipped := elapsed / d.half
	due := elapsed > 0 && elapsed%d.half == 0
	if due {
		skipped--
	}
	if skipped%2 == 1 {
		s.values[d.port] = 1 - s.values[d.port]
	}
	if due {
		s.assign(d.port, 1-s.values[d.port])
	}
	d.running = true
	d.actor.w = wait{timed: true, at: d.since + (elapsed/d.half+1)*d.half}
}

// reset holds r for ResetEdges rising edges of clk once ResetDelay has
// passed. A clock the testbench does not drive is left to the device, so
// the reset is released after the delay alone.
func (s *sim) reset(r Reset, clk *driver) *actor {
	name := "rst_" + r.Port
	phase := 0
	return &actor{name: name, run: func() wait {
		phase++
		switch {
		case phase == 1:
			return wait{timed: true, at: s.now + ResetDelay}
		case clk == nil:
		case phase == 2:
			s.watch(clk)
			fallthrough
		case phase <= 1+ResetEdges:
			return wait{sens: []string{clk.port}, until: func() bool { return s.values[clk.port] == 1 }}
		default:
			clk.watchers--
		}
		s.assign(r.Port, 0)
		s.emit(name, ResetReleased, -1)
		s.emit(name, ProcessEnded, -1)
		return wait{forever: true}
	}}
}

func procedureTime(index int) Time {
	return Time(index+1) * Nanosecond
}

func (s *sim) process(p Process, plan *Plan, all int) *actor {
	resets := make([]string, len(plan.Resets))
	for i, r := range plan.Resets {
		resets[i] = r.Port
	}
	pc := 0
	current := -1
	limit := 4*len(p.Steps) + 4
	return &actor{name: p.Name, run: func() wait {
		for n := 0; ; n++ {
			if len(p.Steps) == 0 || n > limit {
				return wait{forever: true, stuck: true}
			}
			if pc >= len(p.Steps) {
				pc = 0
			}
			st := p.Steps[pc]
			pc++
			switch st.Kind {
			case AwaitResets:
				return wait{sens: resets, until: func() bool {
					for _, r := range resets {
						if s.values[r] != 0 {
							return false
						}
					}
					return true
				}}
			case AwaitCase:
				i := st.Case
				return wait{sens: []string{sigNextCase}, until: func() bool { return s.values[sigNextCase] == i }}
			case ClearDone:
				s.assignBit(sigDone, p.Index, 0)
			case Invoke:
				current = st.Case
				s.emit(p.Name, BodyStarted, st.Case)
				return wait{timed: true, at: s.now + procedureTime(p.Index)}
			case UserCode:
				current = -1
				s.emit(p.Name, BodyStarted, -1)
			case Settle:
				return wait{timed: true, at: s.now + SettleTime}
			case SetDone:
				s.assignBit(sigDone, p.Index, 1)
				s.emit(p.Name, DoneSet, current)
			case AnnounceCase:
				s.assign(sigNextCase, st.Case)
				s.emit(p.Name, CaseAnnounced, st.Case)
			case AwaitBarrier:
				return wait{sens: []string{sigDone}, until: func() bool { return s.values[sigDone] == all }}
			case StopClocks:
				s.assign(sigRunning, 0)
				s.emit(p.Name, ClocksStopped, -1)
			case Suspend:
				s.emit(p.Name, ProcessEnded, -1)
				return wait{forever: true}
			}
		}
	}}
}
