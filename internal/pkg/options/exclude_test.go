package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOffsetEmpty(t *testing.T) {
	t.Parallel()
	offset, err := ParseOffset("")
	require.NoError(t, err)
	assert.Equal(t, Offset{}, offset)
}

func TestParseOffsetNodeOnly(t *testing.T) {
	t.Parallel()
	offset, err := ParseOffset("7")
	require.NoError(t, err)
	assert.Equal(t, Offset{Node: 7, Step: 1}, offset)
}

func TestParseOffsetNodeAndStep(t *testing.T) {
	t.Parallel()
	offset, err := ParseOffset("7,42")
	require.NoError(t, err)
	assert.Equal(t, Offset{Node: 7, Step: 42}, offset)
}

func TestParseOffsetInvalid(t *testing.T) {
	t.Parallel()
	cases := []string{"x", "1,x", "1,2,3"}
	for _, spec := range cases {
		_, err := ParseOffset(spec)
		assert.Error(t, err, spec)
	}
}

func TestParseExcludeStepEmpty(t *testing.T) {
	t.Parallel()
	exclude, err := ParseExcludeStep("")
	require.NoError(t, err)
	assert.Nil(t, exclude)
}

func TestParseExcludeStep(t *testing.T) {
	t.Parallel()
	cases := []struct {
		spec     string
		expected *ExcludeStep
	}{
		{"3,11", &ExcludeStep{Node: 3, Step: 11}},
		{"events,3,11", &ExcludeStep{Keyspace: "events", Node: 3, Step: 11}},
		{"events,clicks,3,11", &ExcludeStep{Keyspace: "events", ColumnFamily: "clicks", Node: 3, Step: 11}},
	}
	for _, c := range cases {
		exclude, err := ParseExcludeStep(c.spec)
		require.NoError(t, err, c.spec)
		assert.Equal(t, c.expected, exclude, c.spec)
	}
}

func TestParseExcludeStepInvalid(t *testing.T) {
	t.Parallel()
	cases := []string{"3", "a,b", "events,x,11", "a,b,c,d,e"}
	for _, spec := range cases {
		_, err := ParseExcludeStep(spec)
		assert.Error(t, err, spec)
	}
}
