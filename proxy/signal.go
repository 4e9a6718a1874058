package proxy

type slot struct {
	id int
	fn func()
}

// signal is a list of callbacks invoked synchronously, in connection order.
type signal struct {
	next  int
	slots []slot
}

func (s *signal) connect(fn func()) (disconnect func()) {
	s.next++
	id := s.next
	s.slots = append(s.slots, slot{id, fn})
	return func() { s.disconnect(id) }
}

func (s *signal) disconnect(id int) {
	for i := range s.slots {
		if s.slots[i].id == id {
			s.slots = append(s.slots[:i:i], s.slots[i+1:]...)
			return
		}
	}
}

func (s *signal) connected(id int) bool {
	for _, sl := range s.slots {
		if sl.id == id {
			return true
		}
	}
	return false
}

func (s *signal) emit() {
	// Slots disconnected by an earlier slot of the same emission are skipped
	slots := s.slots
	for _, sl := range slots {
		if s.connected(sl.id) {
			sl.fn()
		}
	}
}
