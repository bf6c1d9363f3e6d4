package booking

// LockCount reports how many bookings currently own a transition lock.
func (r *Registry) LockCount() int {
	return r.locks.Size()
}
