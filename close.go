package btreego

// Close marks the database closed and releases the snapshot manager.
// Subsequent operations return ErrClosed. Close is idempotent and safe on
// a nil receiver.
func (db *DB) Close() error {
	if db == nil {
		return nil
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return nil
	}
	db.closed = true

	if db.manager != nil {
		return db.manager.Close()
	}
	return nil
}
