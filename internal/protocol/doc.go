// Package protocol describes the rendezvous protocol a generated testbench
// runs: a control process sequencing test cases, stimulus processes
// signalling completion through a done-bit vector, and clock and reset
// drivers.
//
// A Plan is built from a testbench descriptor and consumed by the renderer.
// Plan.Validate checks the plan's structure and then executes it with
// Simulate, a small delta-cycle model of the generated processes, checking
// the resulting Trace:
//
//   - every stimulus body starts after every reset was released
//   - cases are announced once each, in declared order
//   - a case is announced only after every process completed the previous one
//   - the run flag is cleared once, after the last barrier, and every
//     process reaches its final wait
package protocol
