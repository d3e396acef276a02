// Package optimistic generalizes the snapshot/apply/commit-or-revert
// pattern used for UI state that updates before server confirmation.
package optimistic

// Mutation binds a readable/writable piece of state of type T.
type Mutation[T any] struct {
	Read  func() T
	Write func(T)
}

// Run snapshots the current value, writes the optimistic result of apply,
// then commits. On commit failure the snapshot is restored exactly and the
// error returned; on success the server-confirmed value is written.
func (m Mutation[T]) Run(apply func(T) T, commit func() (T, error)) error {
	prev := m.Read()
	m.Write(apply(prev))
	confirmed, err := commit()
	if err != nil {
		m.Write(prev)
		return err
	}
	m.Write(confirmed)
	return nil
}
