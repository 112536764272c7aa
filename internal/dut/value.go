package dut

import (
	"strings"
)

var (
	bitTypes    = []string{"std_logic", "std_ulogic"}
	vectorTypes = []string{"std_logic_vector", "std_ulogic_vector", "unsigned", "signed"}
)

// PortValue returns the VHDL literal driving p to its active (asserted) or
// inactive level. A low-active port is asserted at '0'. Single-bit types get
// the bit literal, vector types an (others => ...) aggregate; any other type
// fails with *UnknownTypeError.
func PortValue(p Port, active bool) (string, error) {
	bit := "'1'"
	if active == p.LowActive() {
		bit = "'0'"
	}

	name := p.Type.Name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	switch {
	case oneOf(name, bitTypes):
		return bit, nil
	case oneOf(name, vectorTypes):
		return "(others => " + bit + ")", nil
	}
	return "", &UnknownTypeError{Port: p.Name, Type: p.Type.Name}
}

// InitialValue is the value a DUT signal starts at in the testbench: clocks
// and resets start active, everything else inactive.
func InitialValue(p Port) (string, error) {
	return PortValue(p, p.IsClock() || p.IsReset())
}

func oneOf(name string, set []string) bool {
	for _, s := range set {
		if sameName(name, s) {
			return true
		}
	}
	return false
}
