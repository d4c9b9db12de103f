// Package digest holds the header digest: an append only log of items
// attached to a block header by the runtime and consensus engines.
package digest

// Digest is the ordered log of items of a header. Items are kept in append
// order and never reordered.
type Digest[I any] struct {
	Items []I
}

// Push appends an item to the end of the log.
func (d *Digest[I]) Push(item I) {
	d.Items = append(d.Items, item)
}

// Pop removes and returns the last item.
func (d *Digest[I]) Pop() (I, bool) {
	var zero I
	if len(d.Items) == 0 {
		return zero, false
	}
	last := d.Items[len(d.Items)-1]
	d.Items[len(d.Items)-1] = zero
	d.Items = d.Items[:len(d.Items)-1]
	return last, true
}

func (d Digest[I]) Logs() []I {
	return d.Items
}

// Log returns the first item, from the front, matching predicate.
func (d Digest[I]) Log(predicate func(I) bool) (I, bool) {
	for _, item := range d.Items {
		if predicate(item) {
			return item, true
		}
	}
	var zero I
	return zero, false
}

// Convert maps every item of d with f, keeping order.
func Convert[I, J any](d Digest[I], f func(I) J) Digest[J] {
	out := Digest[J]{Items: make([]J, 0, len(d.Items))}
	for _, item := range d.Items {
		out.Items = append(out.Items, f(item))
	}
	return out
}
