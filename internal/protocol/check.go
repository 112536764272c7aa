package protocol

import (
	"errors"
	"fmt"
)

// Violation reports a plan that does not implement the rendezvous
// protocol. It indicates a generator defect, never bad user input.
type Violation struct {
	// Process is the offending process, empty for plan-wide violations.
	Process string

	Message string
}

// Error implements the error interface.
func (v *Violation) Error() string {
	if v.Process == "" {
		return "protocol violation: " + v.Message
	}
	return fmt.Sprintf("protocol violation in %s: %s", v.Process, v.Message)
}

// IsViolation returns true if err is, or wraps, a *Violation.
func IsViolation(err error) bool {
	var v *Violation
	return errors.As(err, &v)
}

func violation(process, format string, args ...any) *Violation {
	return &Violation{Process: process, Message: fmt.Sprintf(format, args...)}
}

// Validate checks the plan statically and then simulates it, checking the
// resulting trace.
func (p *Plan) Validate() error {
	if err := p.checkStatic(); err != nil {
		return err
	}
	return p.CheckTrace(Simulate(p))
}

func (p *Plan) checkStatic() error {
	if len(p.Processes) == 0 {
		return violation("", "no processes")
	}
	if p.MultiCase && len(p.Cases) == 0 {
		return violation("", "multi-case plan without cases")
	}

	all := append([]Process{p.Control}, p.Processes...)
	for _, proc := range all {
		if n := len(proc.Steps); n == 0 || proc.Steps[n-1].Kind != Suspend {
			return violation(proc.Name, "does not end with a final wait")
		}
		for _, st := range proc.Steps[:len(proc.Steps)-1] {
			if st.Kind == Suspend {
				return violation(proc.Name, "final wait before the end")
			}
		}
		if len(p.Resets) > 0 && (proc.Index < 0 || !p.MultiCase) && proc.Steps[0].Kind != AwaitResets {
			return violation(proc.Name, "does not wait for the resets")
		}
	}

	if err := p.checkControl(); err != nil {
		return err
	}
	for _, proc := range p.Processes {
		if err := p.checkStimulus(proc); err != nil {
			return err
		}
	}
	return nil
}

func (p *Plan) checkControl() error {
	c := p.Control
	next := 0
	barriers := 0
	stops := 0
	for i, st := range c.Steps {
		switch st.Kind {
		case AnnounceCase:
			if !p.MultiCase || st.Case != next {
				return violation(c.Name, "announces case %d, expected %d", st.Case, next)
			}
			if i+1 >= len(c.Steps) || c.Steps[i+1].Kind != AwaitBarrier {
				return violation(c.Name, "case %d is not followed by the barrier", st.Case)
			}
			next++
		case AwaitBarrier:
			barriers++
		case StopClocks:
			if stops > 0 {
				return violation(c.Name, "stops the clocks twice")
			}
			want := 1
			if p.MultiCase {
				want = len(p.Cases)
			}
			if barriers != want {
				return violation(c.Name, "stops the clocks after %d of %d barriers", barriers, want)
			}
			stops++
		case AwaitCase, ClearDone, Invoke, Settle, SetDone, UserCode:
			return violation(c.Name, "unexpected step %s", st.Kind)
		}
	}
	if p.MultiCase && next != len(p.Cases) {
		return violation(c.Name, "announces %d of %d cases", next, len(p.Cases))
	}
	if stops != 1 {
		return violation(c.Name, "never stops the clocks")
	}
	return nil
}

func (p *Plan) checkStimulus(proc Process) error {
	steps := proc.Steps
	if !p.MultiCase {
		var kinds []StepKind
		for _, st := range steps {
			if st.Kind != AwaitResets {
				kinds = append(kinds, st.Kind)
			}
		}
		if len(kinds) != 3 || kinds[0] != UserCode || kinds[1] != SetDone {
			return violation(proc.Name, "single-case body must run user code then set its done bit")
		}
		return nil
	}

	body := []StepKind{AwaitCase, ClearDone, Invoke, Settle, SetDone}
	if len(steps) != len(body)*len(p.Cases)+1 {
		return violation(proc.Name, "has %d steps for %d cases", len(steps), len(p.Cases))
	}
	for i := range p.Cases {
		for j, kind := range body {
			st := steps[i*len(body)+j]
			if st.Kind != kind {
				return violation(proc.Name, "case %d: step %d is %s, expected %s", i, j, st.Kind, kind)
			}
			if (kind == AwaitCase || kind == Invoke) && st.Case != i {
				return violation(proc.Name, "case %d: %s refers to case %d", i, kind, st.Case)
			}
		}
	}
	return nil
}

// CheckTrace verifies the ordering guarantees of the protocol on a
// simulated trace.
func (p *Plan) CheckTrace(t *Trace) error {
	if t.Truncated {
		return violation("", "simulation did not settle")
	}
	if len(t.Blocked) > 0 {
		return violation(t.Blocked[0], "deadlock, never reaches its final wait")
	}

	releases := 0
	announced := make(map[int]int)
	next := 0
	stopped := -1
	started := make(map[string]int)
	lastDone := make(map[int]int)

	for i, e := range t.Events {
		switch e.Kind {
		case ResetReleased:
			releases++
		case CaseAnnounced:
			if e.Case != next {
				return violation(e.Process, "announced case %d, expected %d", e.Case, next)
			}
			if next > 0 && lastDone[next-1] != len(p.Processes) {
				return violation(e.Process, "announced case %d before case %d completed", next, next-1)
			}
			announced[e.Case] = i
			next++
		case BodyStarted:
			if releases < len(p.Resets) {
				return violation(e.Process, "started before every reset was released")
			}
			if p.MultiCase {
				if _, ok := announced[e.Case]; !ok {
					return violation(e.Process, "started case %d before it was announced", e.Case)
				}
				if started[e.Process] != e.Case {
					return violation(e.Process, "started case %d, expected %d", e.Case, started[e.Process])
				}
				started[e.Process]++
			}
		case DoneSet:
			if stopped >= 0 {
				return violation(e.Process, "set its done bit after the clocks stopped")
			}
			lastDone[e.Case]++
		case ClocksStopped:
			if stopped >= 0 {
				return violation(e.Process, "stopped the clocks twice")
			}
			stopped = i
		}
	}

	for c := range lastDone {
		if lastDone[c] != len(p.Processes) {
			return violation("", "case %d completed by %d of %d processes", c, lastDone[c], len(p.Processes))
		}
	}
	if p.MultiCase {
		if next != len(p.Cases) {
			return violation("", "announced %d of %d cases", next, len(p.Cases))
		}
		for _, proc := range p.Processes {
			if started[proc.Name] != len(p.Cases) {
				return violation(proc.Name, "ran %d of %d cases", started[proc.Name], len(p.Cases))
			}
		}
	}
	if stopped < 0 {
		return violation("", "clocks never stopped")
	}
	if len(t.Filter(ProcessEnded)) != len(p.Clocks)+len(p.Resets)+len(p.Processes)+1 {
		return violation("", "not every process reached its final wait")
	}
	return nil
}
