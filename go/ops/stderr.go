// Package ops carries the bridge's ambient logging concerns: turning a
// resolver peer's raw stderr stream into structured log entries, the way
// the teacher's ops package turns connector stderr into operations logs.
package ops

import (
	"bytes"
	"io"

	"github.com/sirupsen/logrus"
)

// StderrHandler receives one complete line of a resolver peer's stderr
// output at a time. It must not block on I/O that depends on the resolver
// making further progress, since it runs on the transport's dedicated
// stderr-draining goroutine.
type StderrHandler func(line string)

// NewStderrLogger returns a StderrHandler that logs every line through
// logger at level, tagged with stream=stderr. This is the default handler
// a ChildProcessTransport uses when the caller doesn't supply one.
func NewStderrLogger(logger *logrus.Entry, level logrus.Level) StderrHandler {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return func(line string) {
		logger.WithField("stream", "stderr").Log(level, line)
	}
}

// NewStderrWriteAdapter returns an io.Writer which splits arbitrary writes
// on newlines and dispatches each complete line to handler, buffering any
// trailing partial line across calls. Once a buffered partial line would
// exceed maxStderrLineSize, the buffered bytes are discarded and a warning is
// logged, rather than growing without bound; bytes of that line arriving
// after the discard are still dispatched when its newline comes.
func NewStderrWriteAdapter(handler StderrHandler) io.Writer {
	return &stderrWriteAdapter{handler: handler}
}

type stderrWriteAdapter struct {
	handler StderrHandler
	rem     []byte
}

func (a *stderrWriteAdapter) Write(p []byte) (int, error) {
	n := len(p)

	newlineIndex := bytes.IndexByte(p, '\n')
	for newlineIndex >= 0 {
		line := p[:newlineIndex]
		if len(a.rem) > 0 {
			line = append(a.rem, line...)
		}
		a.handler(string(line))

		p = p[newlineIndex+1:]
		a.rem = a.rem[:0]
		newlineIndex = bytes.IndexByte(p, '\n')
	}

	if len(a.rem)+len(p) > maxStderrLineSize {
		logrus.WithField("length", len(a.rem)+len(p)).Warn("resolver stderr line is too long (discarding)")
		a.rem = a.rem[:0]
	} else if len(p) > 0 {
		a.rem = append(a.rem, p...)
	}

	return n, nil
}

// maxStderrLineSize bounds how much of an unterminated stderr line is held
// in memory awaiting its newline.
const maxStderrLineSize = 1 << 20
