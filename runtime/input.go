package bruntime

import (
	"bufio"
	"io"
	"strings"
)

// InputProvider supplies one line of user input per call. It is
// consulted only when the queue is empty, so tests and frontends can
// mix pre-seeded and live input freely.
type InputProvider func() (string, error)

func (it *Interp) SetInputProvider(fn InputProvider) {
	it.inputProvider = fn
}

// EnqueueInput appends lines that future DAWAT reads consume before the
// provider is asked.
func (it *Interp) EnqueueInput(lines ...string) {
	it.inputQueue = append(it.inputQueue, lines...)
}

func (it *Interp) readLine(stmtLine int) (string, error) {
	if len(it.inputQueue) > 0 {
		v := it.inputQueue[0]
		it.inputQueue = it.inputQueue[1:]
		return strings.TrimSpace(v), nil
	}
	if it.inputProvider == nil {
		return "", runErrf(stmtLine, ErrInputInvalid, "no input available")
	}
	raw, err := it.inputProvider()
	if err != nil {
		return "", runErrf(stmtLine, ErrInputInvalid, "reading input: %v", err)
	}
	return strings.TrimSpace(raw), nil
}

// ScanProvider adapts a line-oriented reader, typically standard input,
// into an InputProvider. EOF surfaces as an error so a missing line
// aborts the read rather than looping.
func ScanProvider(r io.Reader) InputProvider {
	sc := bufio.NewScanner(r)
	return func() (string, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		return sc.Text(), nil
	}
}
