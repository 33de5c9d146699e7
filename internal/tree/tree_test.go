package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKinds(t *testing.T) {
	n, err := Parse([]byte(`{"a": [1, "two", true], "b": null}`))
	require.NoError(t, err)
	assert.Equal(t, KindObject, n.Kind())

	a, ok := n.Field("a")
	require.True(t, ok)
	assert.Equal(t, KindArray, a.Kind())

	items, ok := a.Array()
	require.True(t, ok)
	assert.Len(t, items, 3)

	b, ok := n.Field("b")
	require.True(t, ok)
	assert.True(t, b.IsScalar())
	assert.Equal(t, "", b.Text())

	_, ok = n.Field("missing")
	assert.False(t, ok)
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte(`{"a":`))
	assert.Error(t, err)
}

func TestLargeIDsSurvive(t *testing.T) {
	// 2^53+1 is not representable as a float64, so this only holds when
	// integer ids bypass the float path.
	n, err := Parse([]byte(`{"id": 9007199254740993}`))
	require.NoError(t, err)

	id, ok := n.Field("id")
	require.True(t, ok)
	v, ok := id.PositiveInt()
	require.True(t, ok)
	assert.Equal(t, int64(9007199254740993), v)
	assert.Equal(t, "9007199254740993", id.Text())
}

func TestPositiveInt(t *testing.T) {
	tests := []struct {
		name string
		json string
		want int64
		ok   bool
	}{
		{"number", `42`, 42, true},
		{"numeric string", `"42"`, 42, true},
		{"large string id exact", `"9007199254740993"`, 9007199254740993, true},
		{"fractional truncates", `42.9`, 42, true},
		{"zero rejected", `0`, 0, false},
		{"negative rejected", `-3`, 0, false},
		{"text rejected", `"banner.png"`, 0, false},
		{"bool rejected", `true`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Parse([]byte(tt.json))
			require.NoError(t, err)
			got, ok := n.PositiveInt()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWalkOrderAndPrune(t *testing.T) {
	n, err := Parse([]byte(`{"b": {"skip": {"inner": 1}}, "a": [10, 20]}`))
	require.NoError(t, err)

	var keys []string
	n.Walk(func(key string, child Node) bool {
		keys = append(keys, key)
		return key != "skip"
	})

	// Object keys sorted, array indices in order, pruned subtree absent.
	assert.Equal(t, []string{"a", "0", "1", "b", "skip"}, keys)
}

func TestText(t *testing.T) {
	assert.Equal(t, "hello", FromValue("hello").Text())
	assert.Equal(t, "true", FromValue(true).Text())
	assert.Equal(t, "", FromValue(map[string]interface{}{}).Text())

	s, ok := FromValue("hello").String()
	assert.True(t, ok)
	assert.Equal(t, "hello", s)
}
