package notify

import (
	"log"

	"github.com/KiraleTech/KiTools/kbi"
)

// LogText receives a printf-style specifier and logs it somewhere,
// adapted from the teacher's appdrivers.LogText.
type LogText interface {
	Printf(string, ...interface{})
}

// StdLogger routes LogText output through the standard log package,
// picking up its usual timestamp prefix.
type StdLogger struct{}

func (StdLogger) Printf(f string, v ...interface{}) {
	log.Printf(f, v...)
}

// LineLogger is a firehose Receiver that prints every notification's
// rendered text line, adapted from the teacher's FrameStdout.
type LineLogger struct {
	Logger LogText
}

// NewLineLogger builds a LineLogger writing through the standard
// logger.
func NewLineLogger() *LineLogger {
	return &LineLogger{Logger: StdLogger{}}
}

// Receive implements Receiver.
func (l *LineLogger) Receive(n kbi.Notification) bool {
	l.Logger.Printf("%s\n", n.Text)
	return true
}
