package json

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalArray(t *testing.T) {
	data, err := MarshalArray([]interface{}{int64(1), "a<b", true, 2.5})
	require.NoError(t, err)
	assert.JSONEq(t, `[1,"a<b",true,2.5]`, string(data))

	data, err = MarshalArray(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestStreamingEncoder_Array(t *testing.T) {
	var buf bytes.Buffer
	se := NewStreamingEncoder(&buf, true)
	require.NoError(t, se.Encode(map[string]interface{}{"a": 1}))
	require.NoError(t, se.Encode(map[string]interface{}{"a": 2}))
	require.NoError(t, se.Close())

	assert.JSONEq(t, `[{"a":1},{"a":2}]`, buf.String())
}

func TestStreamingEncoder_Lines(t *testing.T) {
	var buf bytes.Buffer
	se := NewStreamingEncoder(&buf, false)
	require.NoError(t, se.Encode([]int{1}))
	require.NoError(t, se.Encode([]int{2}))
	require.NoError(t, se.Close())

	assert.Equal(t, "[1]\n[2]\n", buf.String())
}

func TestStreamingEncoder_EmptyArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewStreamingEncoder(&buf, true).Close())
	assert.JSONEq(t, `[]`, buf.String())
}

func TestNewEncoder_NoHTMLEscape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, MarshalToWriter(&buf, "<tag>"))
	assert.Equal(t, "\"<tag>\"\n", buf.String())
}

func TestBufferPool(t *testing.T) {
	buf := GetBuffer()
	buf.WriteString("left over")
	PutBuffer(buf)

	again := GetBuffer()
	assert.Equal(t, 0, again.Len())
	PutBuffer(again)
	PutBuffer(nil)
}

func BenchmarkMarshalArray(b *testing.B) {
	values := make([]interface{}, 1000)
	for i := range values {
		values[i] = float64(i) * 1.5
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := MarshalArray(values); err != nil {
			b.Fatal(err)
		}
	}
}
