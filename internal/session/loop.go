package session

import "sync"

// loop runs posted funcs one at a time, in order, on its own goroutine.
// Posting never blocks, so funcs running on the loop may post more work.
type loop struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
	done  chan struct{}
	once  sync.Once
}

func newLoop() *loop {
	l := &loop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *loop) run() {
	for {
		select {
		case <-l.wake:
			l.drain()
		case <-l.done:
			return
		}
	}
}

func (l *loop) drain() {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		select {
		case <-l.done:
			return
		default:
		}
		fn()
	}
}

func (l *loop) post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// call runs fn on the loop and waits for it. It must not be used from a
// func already running on the loop.
func (l *loop) call(fn func()) error {
	finished := make(chan struct{})
	l.post(func() {
		defer close(finished)
		fn()
	})
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrClosed
	}
}

func (l *loop) stop() {
	l.once.Do(func() { close(l.done) })
}

func (l *loop) stopped() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}
