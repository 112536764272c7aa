// Package tags implements the $$ ... $$ annotation language embedded in
// VHDL comments.
//
//	-- $$ type=clk; freq=100e6 $$
//	-- $$ processes=Stimuli,Checker $$
//
// Tag names are alphabetic and case-insensitive. A value is either a
// Scalar or a List; a single token is always a Scalar.
package tags
