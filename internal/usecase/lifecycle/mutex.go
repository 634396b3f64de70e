package lifecycle

import "sync"

// keyedMutex serializes transitions per username. Entries are never evicted;
// the map is bounded by the number of distinct usernames seen by the process.
type keyedMutex struct {
	locks sync.Map // username -> *sync.Mutex
}

func (k *keyedMutex) lock(username string) func() {
	v, _ := k.locks.LoadOrStore(username, &sync.Mutex{})
	m := v.(*sync.Mutex)
	m.Lock()

	return m.Unlock
}
