package proxy

import "sync"

type channelLocker struct {
	L chan struct{}
	U chan struct{}
}

func newChannelLocker() *channelLocker {
	return &channelLocker{
		L: make(chan struct{}),
		U: make(chan struct{}),
	}
}

func (cl *channelLocker) Lock() {
	cl.L <- struct{}{}
}

func (cl *channelLocker) Unlock() {
	cl.U <- struct{}{}
}

// RunLockable executes Run in a separate goroutine and returns a sync.Locker
// for mutually exclusive execution with Process. Locking guarantees that
// Process is not and will not run until unlocked, so proxies, properties and
// anything bound to them may be used freely while holding the lock.
//
// RunLockable also returns a channel, which will receive one error value and
// close when the session is closed.
func (s *Session) RunLockable() (sync.Locker, <-chan error) {
	lock := newChannelLocker()
	errChannel := make(chan error, 1)

	if err := s.ensureHandler(); err != nil {
		errChannel <- err
		close(errChannel)
		return lock, errChannel
	}
	go func() {
		defer close(errChannel)
		for {
			select {
			case _, open := <-s.processSignal:
				if !open {
					errChannel <- s.Err()
					return
				} else if err := s.Process(); err != nil {
					errChannel <- err
					return
				}
			case <-lock.L:
				<-lock.U
			}
		}
	}()

	return lock, errChannel
}
