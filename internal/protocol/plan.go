package protocol

import (
	"fmt"
	"strconv"

	"github.com/roach88/tbgen/internal/dut"
)

// StepKind is one action of a generated process.
type StepKind int

const (
	// AwaitResets waits until every reset is at its inactive level.
	AwaitResets StepKind = iota
	// AwaitCase waits until the case index selects Step.Case.
	AwaitCase
	// ClearDone clears the process's own done bit.
	ClearDone
	// Invoke calls the procedure of Step.Case from the case package.
	Invoke
	// Settle waits for SettleTime.
	Settle
	// SetDone sets the process's own done bit.
	SetDone
	// AnnounceCase drives the case index to Step.Case.
	AnnounceCase
	// AwaitBarrier waits until every done bit is set.
	AwaitBarrier
	// StopClocks clears the run flag.
	StopClocks
	// UserCode is the editable body of a single-case process.
	UserCode
	// Suspend waits forever.
	Suspend
)

var stepNames = [...]string{
	AwaitResets:  "await-resets",
	AwaitCase:    "await-case",
	ClearDone:    "clear-done",
	Invoke:       "invoke",
	Settle:       "settle",
	SetDone:      "set-done",
	AnnounceCase: "announce-case",
	AwaitBarrier: "await-barrier",
	StopClocks:   "stop-clocks",
	UserCode:     "user-code",
	Suspend:      "suspend",
}

func (k StepKind) String() string {
	if int(k) < len(stepNames) {
		return stepNames[k]
	}
	return fmt.Sprintf("StepKind(%d)", int(k))
}

// State groups steps into the phases of the protocol.
type State int

const (
	AwaitingReset State = iota
	CaseWait
	CaseBody
	Done
	Terminal
)

func (s State) String() string {
	switch s {
	case AwaitingReset:
		return "awaiting-reset"
	case CaseWait:
		return "case-wait"
	case CaseBody:
		return "case-body"
	case Done:
		return "done"
	case Terminal:
		return "terminal"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Step is one entry of a process program.
type Step struct {
	Kind StepKind

	// Case is the 0-based case index for AwaitCase, Invoke and AnnounceCase.
	Case int
}

// State returns the phase the step belongs to.
func (s Step) State() State {
	switch s.Kind {
	case AwaitResets:
		return AwaitingReset
	case AwaitCase, AnnounceCase, AwaitBarrier:
		return CaseWait
	case ClearDone, Invoke, Settle, UserCode:
		return CaseBody
	case SetDone, StopClocks:
		return Done
	}
	return Terminal
}

// Process is the program of one generated process.
type Process struct {
	Name string

	// Index is the position of the process's done bit; -1 for the control
	// process.
	Index int

	Steps []Step
}

// States returns the sequence of phases the process passes through, with
// consecutive repeats collapsed.
func (p Process) States() []State {
	var out []State
	for _, s := range p.Steps {
		st := s.State()
		if len(out) > 0 && out[len(out)-1] == st {
			continue
		}
		out = append(out, st)
	}
	return out
}

// Clock is a generated clock driver.
type Clock struct {
	Port string

	// Freq is the freq tag as written.
	Freq string

	// HalfPeriod is derived when Freq is a number, zero otherwise.
	HalfPeriod Time

	// LowActive clocks start at '0'.
	LowActive bool
}

// Reset is a generated reset driver.
type Reset struct {
	Port string

	// Clock is the governing clock port, from the clk tag.
	Clock string

	// Inactive is the literal the reset is released to.
	Inactive string
}

// Plan is the complete description of the generated protocol.
type Plan struct {
	MultiCase bool
	Cases     []string
	Clocks    []Clock
	Resets    []Reset
	Control   Process
	Processes []Process
}

const (
	// ResetDelay is the settle time before a reset driver watches its clock.
	ResetDelay = Microsecond

	// ResetEdges is the number of rising edges a reset is held for.
	ResetEdges = 2

	// SettleTime separates a case procedure return from its done bit.
	SettleTime = Picosecond
)

// Build derives the protocol plan of tb. It fails with
// *dut.MissingTagError when a clock has no freq or a reset no clk, and with
// *dut.UnknownTypeError when a reset has no inactive literal.
func Build(tb *dut.Testbench) (*Plan, error) {
	src := tb.Source
	plan := &Plan{
		MultiCase: tb.MultiCase,
		Cases:     append([]string(nil), tb.Cases...),
	}

	for _, c := range src.Clocks() {
		freq, err := dut.RequireTag(c, dut.TagFreq)
		if err != nil {
			return nil, err
		}
		plan.Clocks = append(plan.Clocks, Clock{
			Port:       c.Name,
			Freq:       freq,
			HalfPeriod: halfPeriod(freq),
			LowActive:  c.LowActive(),
		})
	}

	for _, r := range src.Resets() {
		clk, err := dut.RequireTag(r, dut.TagClk)
		if err != nil {
			return nil, err
		}
		inactive, err := dut.PortValue(r, false)
		if err != nil {
			return nil, err
		}
		plan.Resets = append(plan.Resets, Reset{Port: r.Name, Clock: clk, Inactive: inactive})
	}

	hasResets := len(plan.Resets) > 0
	plan.Control = controlProcess(plan.Cases, tb.MultiCase, hasResets)
	for i, name := range tb.Processes {
		plan.Processes = append(plan.Processes, stimulusProcess(name, i, plan.Cases, tb.MultiCase, hasResets))
	}
	return plan, nil
}

func controlProcess(cases []string, multi, resets bool) Process {
	p := Process{Name: "tb_control", Index: -1}
	if resets {
		p.Steps = append(p.Steps, Step{Kind: AwaitResets})
	}
	if multi {
		for i := range cases {
			p.Steps = append(p.Steps, Step{Kind: AnnounceCase, Case: i}, Step{Kind: AwaitBarrier})
		}
	} else {
		p.Steps = append(p.Steps, Step{Kind: AwaitBarrier})
	}
	p.Steps = append(p.Steps, Step{Kind: StopClocks}, Step{Kind: Suspend})
	return p
}

func stimulusProcess(name string, index int, cases []string, multi, resets bool) Process {
	p := Process{Name: name, Index: index}
	if multi {
		for i := range cases {
			p.Steps = append(p.Steps,
				Step{Kind: AwaitCase, Case: i},
				Step{Kind: ClearDone},
				Step{Kind: Invoke, Case: i},
				Step{Kind: Settle},
				Step{Kind: SetDone},
			)
		}
	} else {
		if resets {
			p.Steps = append(p.Steps, Step{Kind: AwaitResets})
		}
		p.Steps = append(p.Steps, Step{Kind: UserCode}, Step{Kind: SetDone})
	}
	p.Steps = append(p.Steps, Step{Kind: Suspend})
	return p
}

// halfPeriod returns 1/(2*freq) when freq is a positive number.
func halfPeriod(freq string) Time {
	f, err := strconv.ParseFloat(freq, 64)
	if err != nil || f <= 0 {
		return 0
	}
	return Time(float64(Second)/(2*f) + 0.5)
}
