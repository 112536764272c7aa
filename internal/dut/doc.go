// Package dut builds the tagged model of a parsed VHDL source: generics and
// ports with their tags, the library groups of the source's use statements,
// and the file-scope tags that drive testbench generation.
package dut
