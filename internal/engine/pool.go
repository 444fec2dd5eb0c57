package engine

import (
	"sync"
	"sync/atomic"
)

const defaultBufferCap = 64 << 10

// Buffer is the byte container handed to Convert. It is filled one byte at
// a time and must be released once the conversion call returns.
type Buffer struct {
	data     []byte
	released bool
	pool     *BufferPool
}

func (b *Buffer) PushBack(c byte) {
	b.data = append(b.data, c)
}

func (b *Buffer) Len() int { return len(b.data) }

func (b *Buffer) Bytes() []byte { return b.data }

// Release hands the buffer back to its pool. Releasing twice is a no-op.
func (b *Buffer) Release() {
	if b.released {
		return
	}
	b.released = true
	if b.pool != nil {
		b.pool.put(b)
	}
}

func (b *Buffer) Released() bool { return b.released }

// BufferPool recycles buffers and counts the ones still outstanding.
type BufferPool struct {
	pool        sync.Pool
	outstanding atomic.Int64
}

func NewBufferPool() *BufferPool {
	p := &BufferPool{}
	p.pool.New = func() interface{} {
		return &Buffer{data: make([]byte, 0, defaultBufferCap)}
	}
	return p
}

func (p *BufferPool) Get() *Buffer {
	b := p.pool.Get().(*Buffer)
	b.data = b.data[:0]
	b.released = false
	b.pool = p
	p.outstanding.Add(1)
	return b
}

func (p *BufferPool) put(b *Buffer) {
	p.outstanding.Add(-1)
	b.data = b.data[:0]
	b.pool = nil
	p.pool.Put(b)
}

// Outstanding is the number of buffers handed out and not yet released.
func (p *BufferPool) Outstanding() int64 {
	return p.outstanding.Load()
}
