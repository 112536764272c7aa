package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	name string
	tags *Map
}

func (i item) Tags() *Map { return i.tags }

func items() []item {
	return []item{
		{"Clk", mustParse("$$ type=clk; freq=100e6 $$")},
		{"Rst", mustParse("$$ type=rst; clk=Clk $$")},
		{"Data", mustParse("$$ proc=Stimuli,Checker $$")},
		{"Valid", mustParse("$$ proc=checker $$")},
		{"Plain", mustParse(" no tags")},
	}
}

func names(in []item) []string {
	out := make([]string, len(in))
	for i, it := range in {
		out[i] = it.name
	}
	return out
}

func TestHasAndEquals(t *testing.T) {
	m := mustParse("$$ Type=CLK; lowactive=true; proc=A,B $$")

	assert.True(t, m.Has("type"))
	assert.True(t, m.Has("TYPE"))
	assert.False(t, m.Has("freq"))

	assert.True(t, m.Equals("type", "clk", false))
	assert.False(t, m.Equals("type", "clk", true))
	assert.True(t, m.Equals("type", "CLK", true))
	assert.False(t, m.Equals("proc", "A", false))
	assert.False(t, m.Equals("missing", "x", false))
}

func TestNilMapIsEmpty(t *testing.T) {
	var m *Map
	assert.False(t, m.Has("x"))
	assert.Equal(t, 0, m.Len())
	assert.Nil(t, m.Keys())
	_, err := m.Get("x")
	assert.True(t, IsUnknownTagError(err))
}

func TestGetUnknownTag(t *testing.T) {
	m := mustParse("$$ a=1 $$")

	_, err := m.Get("b")
	require.Error(t, err)
	assert.True(t, IsUnknownTagError(err))
	assert.Contains(t, err.Error(), `"b"`)

	v, err := m.Get("A")
	require.NoError(t, err)
	assert.Equal(t, Scalar("1"), v)
}

func TestList(t *testing.T) {
	m := mustParse("$$ one=Stimuli; many=A,B $$")

	l, err := m.List("one")
	require.NoError(t, err)
	assert.Equal(t, []string{"Stimuli"}, l)

	l, err = m.List("many")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, l)

	l[0] = "mutated"
	again, _ := m.List("many")
	assert.Equal(t, []string{"A", "B"}, again)

	_, err = m.List("none")
	assert.True(t, IsUnknownTagError(err))
}

func TestFilter(t *testing.T) {
	in := items()

	assert.Equal(t, []string{"Clk", "Rst"}, names(Filter(in, "type")))
	assert.Equal(t, []string{"Clk"}, names(FilterValue(in, "type", "CLK", false)))
	assert.Empty(t, FilterValue(in, "type", "CLK", true))
	assert.Equal(t, []string{"Data", "Valid"}, names(FilterValue(in, "proc", "Checker", false)))
	assert.Equal(t, []string{"Data"}, names(FilterValue(in, "proc", "Checker", true)))
	assert.Empty(t, Filter(in, "export"))
}

func TestFilterStableOrder(t *testing.T) {
	in := items()
	first := names(FilterValue(in, "proc", "checker", false))
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, names(FilterValue(in, "proc", "checker", false)))
	}
	assert.Equal(t, []string{"Clk", "Rst", "Data", "Valid", "Plain"}, names(in))
}

func TestMerge(t *testing.T) {
	m := mustParse("$$ a=1; b=2 $$")
	m.Merge(mustParse("$$ b=3; c=4 $$"))
	m.Merge(nil)

	assert.Equal(t, []string{"a", "b", "c"}, m.Keys())
	v, _ := m.Lookup("b")
	assert.Equal(t, Scalar("3"), v)
}

func TestZeroValueMap(t *testing.T) {
	var m Map
	m.Set("Key", Scalar("v"))
	assert.True(t, m.Has("key"))
}
