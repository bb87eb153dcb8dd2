package pool

import (
	"fmt"
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestStringInternPool_Dedupes(t *testing.T) {
	p := NewStringInternPool(0)

	src := "Lima,Lima"
	a := p.Intern(src[:4])
	b := p.Intern(src[5:])

	assert.Equal(t, "Lima", a)
	assert.Equal(t, unsafe.StringData(a), unsafe.StringData(b))
	assert.NotEqual(t, unsafe.StringData(src), unsafe.StringData(a), "interned value must not alias its source")

	size, hits, misses := p.Stats()
	assert.Equal(t, int64(1), size)
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestStringInternPool_Limit(t *testing.T) {
	p := NewStringInternPool(2)
	for _, s := range []string{"a", "b", "c", "c"} {
		assert.Equal(t, s, p.Intern(s))
	}

	size, hits, misses := p.Stats()
	assert.Equal(t, int64(2), size)
	assert.Equal(t, int64(0), hits)
	assert.Equal(t, int64(4), misses)
}

func TestStringInternPool_Clear(t *testing.T) {
	p := NewStringInternPool(10)
	p.Intern("x")
	p.Intern("x")
	p.Clear()

	size, hits, misses := p.Stats()
	assert.Zero(t, size)
	assert.Zero(t, hits)
	assert.Zero(t, misses)
}

func TestStringInternPool_Concurrent(t *testing.T) {
	p := NewStringInternPool(0)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				p.Intern(fmt.Sprintf("v%d", i%10))
			}
		}()
	}
	wg.Wait()

	size, hits, misses := p.Stats()
	assert.Equal(t, int64(10), size)
	assert.Equal(t, int64(800), hits+misses)
}
