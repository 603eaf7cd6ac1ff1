package bbtr

import (
	"golang.org/x/sync/semaphore"
)

// handlerPool tracks the set of currently-running handler invocations. It
// maps each Token to the (Batch, retries) record it is executing, so that
// a crashed invocation's work can be reconstituted and requeued, and it
// gates admission through a weighted semaphore sized to MaxConcurrency so
// the Dispatcher can check capacity without blocking.
//
// Like batchQueue, handlerPool is only ever touched from the Dispatcher
// goroutine; the semaphore is used solely for its non-blocking TryAcquire,
// never its blocking Acquire, so it never introduces a suspension point
// into the Dispatcher's serial loop.
type handlerPool struct {
	sem     *semaphore.Weighted
	running map[Token]*record
}

func newHandlerPool(maxConcurrency int) *handlerPool {
	return &handlerPool{
		sem:     semaphore.NewWeighted(int64(maxConcurrency)),
		running: make(map[Token]*record),
	}
}

// tryAdmit reserves one slot in the pool for r and returns a fresh Token
// for it, or reports ok=false if the pool is already at MaxConcurrency.
func (p *handlerPool) tryAdmit(r *record) (token Token, ok bool) {
	if !p.sem.TryAcquire(1) {
		return Token{}, false
	}
	token = newToken()
	p.running[token] = r
	return token, true
}

// release removes token from the pool and frees its semaphore slot,
// returning the record it was running, or ok=false if the token is
// unknown (for example, a duplicate completion message).
func (p *handlerPool) release(token Token) (r *record, ok bool) {
	r, ok = p.running[token]
	if !ok {
		return nil, false
	}
	delete(p.running, token)
	p.sem.Release(1)
	return r, true
}

// len returns the number of handler invocations currently in flight.
func (p *handlerPool) len() int {
	return len(p.running)
}
