package performance

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceMonitor_Usage(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		t.Skip("process memory is only asserted on linux and darwin")
	}

	rm, err := NewResourceMonitor()
	require.NoError(t, err)

	// Allocate something to keep the heap non-empty.
	buf := make([]byte, 1<<20)
	buf[0] = 1

	usage, err := rm.Usage()
	require.NoError(t, err)
	assert.Positive(t, usage.MemoryRSS)
	assert.Positive(t, usage.HeapAlloc)
	assert.Positive(t, usage.GoroutineCount)
	assert.GreaterOrEqual(t, usage.CPUPercent, 0.0)
	runtime.KeepAlive(buf)
}
