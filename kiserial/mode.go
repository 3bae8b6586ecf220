// Package kiserial implements the dual-mode host<->node serial
// transport: binary KBI framing over a UART, or line-oriented KSH
// shell framing over a USB CDC ACM port. It offers both a simple
// blocking Transport, adapted from the original tool's single-threaded
// command loop, and a ConcurrentTransport with dedicated reader/writer
// goroutines, adapted from the teacher's RunNPI/LinkMgr architecture.
package kiserial

// Mode selects how bytes on the wire are framed.
type Mode int

const (
	// ModeBinary speaks COBS-encoded KBI frames, the UART path.
	ModeBinary Mode = iota
	// ModeShell speaks plain-text KSH commands terminated by a
	// prompt sentinel, the USB CDC path.
	ModeShell
)

// ShellPrompt is the sentinel the node's shell prints after it has
// finished responding to a command.
const ShellPrompt = "kinos@local:~$ "

// DebugLevel gates how much of the transport's own diagnostic chatter
// (as opposed to device notifications/log lines) gets surfaced.
type DebugLevel int

const (
	DebugNone DebugLevel = iota
	DebugKSH
	DebugKBI
	DebugLogs
	DebugAll
)
