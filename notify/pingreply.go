package notify

import (
	"net/netip"

	"github.com/KiraleTech/KiTools/kbi"
)

// PingLogger reports round-trip ping results as they arrive, adapted
// from the teacher's PingHandler (which replied to echo-requests at
// the link layer; here the node's own firmware answers pings, so the
// host only ever observes the reply notification).
type PingLogger struct {
	Logger LogText
}

// NewPingLogger builds a PingLogger writing through the standard
// logger.
func NewPingLogger() *PingLogger {
	return &PingLogger{Logger: StdLogger{}}
}

// Receive implements Receiver. It only handles PingReply/PingReplyNamed
// kinds and otherwise passes the notification through unconsumed.
func (p *PingLogger) Receive(n kbi.Notification) bool {
	if n.Kind != kbi.KindPingReply && n.Kind != kbi.KindPingReplyNamed {
		return true
	}
	addr, _ := netip.AddrFromSlice(n.Source[:])
	p.Logger.Printf("ping reply from %s: id=%d seq=%d size=%d\n", addr, n.ID, n.Seq, n.Size)
	return false
}
