package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScalars(t *testing.T) {
	m, err := Parse("$$ export=true; lowactive=false $$")
	require.NoError(t, err)

	assert.Equal(t, []string{"export", "lowactive"}, m.Keys())
	v, _ := m.Lookup("export")
	assert.Equal(t, Scalar("true"), v)
	v, _ = m.Lookup("lowactive")
	assert.Equal(t, Scalar("false"), v)
}

func TestParseList(t *testing.T) {
	m, err := Parse("$$ processes=A,B,C $$")
	require.NoError(t, err)

	v, ok := m.Lookup("processes")
	require.True(t, ok)
	assert.Equal(t, List{"A", "B", "C"}, v)
}

func TestParseValues(t *testing.T) {
	tests := []struct {
		name    string
		comment string
		tag     string
		want    Value
	}{
		{"single token is scalar", "$$ proc=Stimuli $$", "proc", Scalar("Stimuli")},
		{"numeric scalar", "$$ freq=100e6 $$", "freq", Scalar("100e6")},
		{"dotted list", "$$ tbpkg=work.a_pkg,psi_tb.txt_util $$", "tbpkg", List{"work.a_pkg", "psi_tb.txt_util"}},
		{"list with spaces", "$$ testcases = A , B $$", "testcases", List{"A", "B"}},
		{"list before next group", "$$ proc=A,B type=sig $$", "proc", List{"A", "B"}},
		{"scalar with spaces", "$$ constant=(others => '0') $$", "constant", Scalar("(others => '0')")},
		{"list-like scalar", "$$ x=1,2 foo $$", "x", Scalar("1,2 foo")},
		{"uppercase key", "$$ TYPE=clk $$", "type", Scalar("clk")},
		{"no spaces", "$$a=b$$", "a", Scalar("b")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse(tt.comment)
			require.NoError(t, err)
			v, ok := m.Lookup(tt.tag)
			require.True(t, ok)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestParseWithoutMarker(t *testing.T) {
	for _, c := range []string{"", " plain comment", "costs $5", "a = b; c = d"} {
		m, err := Parse(c)
		require.NoError(t, err)
		assert.Equal(t, 0, m.Len())
	}
}

func TestParseMergesRegions(t *testing.T) {
	m, err := Parse(" $$ a=1; b=2 $$ some text $$ b=3; c=x,y $$")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, m.Keys())
	v, _ := m.Lookup("b")
	assert.Equal(t, Scalar("3"), v)
}

func TestParseDuplicateLastWins(t *testing.T) {
	m, err := Parse("$$ Proc=A; proc=B $$")
	require.NoError(t, err)

	assert.Equal(t, 1, m.Len())
	v, _ := m.Lookup("PROC")
	assert.Equal(t, Scalar("B"), v)
}

func TestParseFormatErrors(t *testing.T) {
	tests := []struct {
		name    string
		comment string
		want    string
	}{
		{"unterminated", "$$ a=1", "unterminated"},
		{"empty region", "$$ $$", "empty"},
		{"missing equals", "$$ a $$", "expected '='"},
		{"bad tag name", "$$ 1=a $$", "expected tag name"},
		{"empty value", "$$ a= ; b=1 $$", "empty tag value"},
		{"unterminated second region", "$$ a=1 $$ and $$ b=2", "unterminated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.comment)
			require.Error(t, err)
			assert.True(t, IsFormatError(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

// mustParse is like Parse but panics on error.
func mustParse(comment string) *Map {
	m, err := Parse(comment)
	if err != nil {
		panic(err)
	}
	return m
}
