package generic

import "sync"

// Pool is a typed sync.Pool. Values are reset before they are handed out again.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(T)
}

func NewPool[T any](generate func() T, reset func(T)) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any {
				return generate()
			},
		},
		reset: reset,
	}
}

func (p *Pool[T]) Get() T {
	return p.pool.Get().(T)
}

func (p *Pool[T]) Put(value T) {
	if p.reset != nil {
		p.reset(value)
	}
	p.pool.Put(value)
}

// With borrows a value for the duration of fn.
func With[T, R any](p *Pool[T], fn func(T) R) R {
	v := p.Get()
	defer p.Put(v)
	return fn(v)
}
