package host

import "sync"

// hub is the host-only connection table. Its mutex guards membership only;
// sends happen outside it against copies of the client list.
type hub struct {
	mu      sync.Mutex
	clients map[*remoteClient]struct{}
}

func (h *hub) add(cl *remoteClient) {
	h.mu.Lock()
	if h.clients == nil {
		h.clients = make(map[*remoteClient]struct{})
	}
	h.clients[cl] = struct{}{}
	h.mu.Unlock()
}

// remove reports whether cl was still tracked; the first remover wins and
// does the slot/metrics cleanup.
func (h *hub) remove(cl *remoteClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl]; !ok {
		return false
	}
	delete(h.clients, cl)
	return true
}

func (h *hub) list() []*remoteClient {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*remoteClient, 0, len(h.clients))
	for cl := range h.clients {
		out = append(out, cl)
	}
	return out
}

func (h *hub) closeAll() {
	for _, cl := range h.list() {
		_ = cl.conn.Close()
	}
}
