package testutil

import "testing"

func TestAssertGolden(t *testing.T) {
	AssertGolden(t, "sample", []byte("-- generated\nentity e_tb is\nend entity;\n"))
}
