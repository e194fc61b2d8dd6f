package archive

import "time"

// SetClock replaces the time source used for generated entries.
func (w *Writer) SetClock(now func() time.Time) {
	w.now = now
}
