package tabs

import "errors"

// NoSelection is the selection index when no tab is selected.
const NoSelection = -1

// ErrDuplicate is returned when inserting a window that is already tracked.
var ErrDuplicate = errors.New("window already managed")

// Registry is the ordered set of embedded clients. Order is tab order.
type Registry struct {
	clients []*Client
}

// Len returns the number of clients.
func (r *Registry) Len() int {
	return len(r.clients)
}

// At returns the client at i, or nil when i is out of range.
func (r *Registry) At(i int) *Client {
	if i < 0 || i >= len(r.clients) {
		return nil
	}
	return r.clients[i]
}

// Clients returns the clients in tab order. The slice must not be modified.
func (r *Registry) Clients() []*Client {
	return r.clients
}

// Find returns the index of the client owning w, or -1.
func (r *Registry) Find(w Window) int {
	for i, c := range r.clients {
		if c.Window == w {
			return i
		}
	}
	return -1
}

// Insert places c at index, clamped to [0, Len()], shifting later clients
// right. It returns the final index.
func (r *Registry) Insert(c *Client, index int) (int, error) {
	if r.Find(c.Window) >= 0 {
		return -1, ErrDuplicate
	}
	if index > len(r.clients) {
		index = len(r.clients)
	}
	if index < 0 {
		index = 0
	}
	r.clients = append(r.clients, nil)
	copy(r.clients[index+1:], r.clients[index:])
	r.clients[index] = c
	return index, nil
}

// Remove deletes and returns the client at i, shifting later clients left.
// It returns nil when i is out of range.
func (r *Registry) Remove(i int) *Client {
	if i < 0 || i >= len(r.clients) {
		return nil
	}
	c := r.clients[i]
	copy(r.clients[i:], r.clients[i+1:])
	r.clients[len(r.clients)-1] = nil
	r.clients = r.clients[:len(r.clients)-1]
	return c
}

// MoveRelative moves the client at src by delta slots, wrapping around the
// ends, and returns its new index. Clients in between shift by one.
func (r *Registry) MoveRelative(src, delta int) int {
	n := len(r.clients)
	if src < 0 || src >= n {
		return src
	}
	dst := (src + delta) % n
	if dst < 0 {
		dst += n
	}
	if dst == src {
		return src
	}
	c := r.clients[src]
	if src < dst {
		copy(r.clients[src:dst], r.clients[src+1:dst+1])
	} else {
		copy(r.clients[dst+1:src+1], r.clients[dst:src])
	}
	r.clients[dst] = c
	return dst
}

// InsertIndex computes where a new client goes in a registry that currently
// holds size clients. With relative set, position is an offset from selected;
// otherwise it is absolute and a negative value appends. The result is
// clamped to the post-insertion range.
func InsertIndex(selected, size, position int, relative bool) int {
	n := size + 1
	var next int
	switch {
	case relative:
		next = selected + position
	case position < 0:
		next = n - position
	default:
		next = position
	}
	if next >= n {
		next = n - 1
	}
	if next < 0 {
		next = 0
	}
	return next
}
