package tui

// LineEditor holds the command line being typed.
type LineEditor struct {
	buf     []rune
	history []string
	pos     int // index into history while browsing, len(history) otherwise
}

// Insert appends a character.
func (le *LineEditor) Insert(r rune) {
	le.buf = append(le.buf, r)
}

// Backspace removes the last character.
func (le *LineEditor) Backspace() {
	if len(le.buf) > 0 {
		le.buf = le.buf[:len(le.buf)-1]
	}
}

// Clear drops the current line.
func (le *LineEditor) Clear() {
	le.buf = le.buf[:0]
	le.pos = len(le.history)
}

// Take returns the line, records it in the history and clears it.
func (le *LineEditor) Take() string {
	line := string(le.buf)
	if line != "" {
		le.history = append(le.history, line)
	}
	le.Clear()
	return line
}

// Prev replaces the line with the previous history entry.
func (le *LineEditor) Prev() {
	if le.pos == 0 {
		return
	}
	le.pos--
	le.buf = []rune(le.history[le.pos])
}

// Next replaces the line with the next history entry, or an empty line past
// the newest.
func (le *LineEditor) Next() {
	if le.pos >= len(le.history) {
		return
	}
	le.pos++
	if le.pos == len(le.history) {
		le.buf = le.buf[:0]
		return
	}
	le.buf = []rune(le.history[le.pos])
}

// String returns the line as typed so far.
func (le *LineEditor) String() string {
	return string(le.buf)
}
