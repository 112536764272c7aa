// Package tbgen renders the VHDL testbench of a tagged source.
//
// A single-case testbench is one file, <entity>_tb. With a testcases tag
// the set grows to the top file, a shared package <entity>_tb_pkg holding
// the generics record, and one package <entity>_tb_case_<case> per case
// with a procedure stub per process. The control and stimulus processes
// are rendered from a protocol.Plan that is validated before any text is
// produced.
package tbgen
