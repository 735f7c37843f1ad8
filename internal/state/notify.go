package state

// Subscribe returns a coalescing change channel that receives after any
// roster-affecting update, plus a cancel func. The channel holds at most
// one pending signal; slow consumers observe the latest state via Snapshot
// rather than a backlog.
func (t *Table) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	t.subMu.Lock()
	t.subs[ch] = struct{}{}
	t.subMu.Unlock()
	cancel := func() {
		t.subMu.Lock()
		delete(t.subs, ch)
		t.subMu.Unlock()
	}
	return ch, cancel
}

func (t *Table) notify() {
	t.subMu.Lock()
	for ch := range t.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	t.subMu.Unlock()
}
