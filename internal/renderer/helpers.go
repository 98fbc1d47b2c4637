package renderer

// Unwind collects cleanup steps during multi-stage GPU setup so a failure
// part way through can undo what already succeeded.
type Unwind []func()

func (u *Unwind) Add(cleanup func()) {
	*u = append(*u, cleanup)
}

// Unwind runs the cleanups in reverse order and empties the list.
func (u *Unwind) Unwind() {
	for i := len(*u) - 1; i >= 0; i-- {
		(*u)[i]()
	}
	*u = nil
}

// Discard forgets the cleanups once setup has succeeded.
func (u *Unwind) Discard() {
	*u = nil
}
