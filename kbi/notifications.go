package kbi

import "fmt"

// notificationText renders a notification frame's payload using the
// exact byte offsets of each of the five known notification kinds.
func notificationText(code byte, payload []byte) string {
	switch code {
	case NotifyPingReply:
		if len(payload) < 22 {
			return "# malformed ping reply"
		}
		return fmt.Sprintf("# ping reply: saddr %s id %s sq %s - %s bytes",
			BytesToString(TypeAddr, payload[0:16], 16),
			BytesToString(TypeDec, payload[18:20], 0),
			BytesToString(TypeDec, payload[20:22], 0),
			BytesToString(TypeDec, payload[16:18], 0),
		)
	case NotifyPingReplyNamed:
		if len(payload) < 54 {
			return "# malformed ping reply"
		}
		return fmt.Sprintf("# ping reply: saddr %s [%s] id %s sq %s - %s bytes",
			BytesToString(TypeAddr, payload[32:48], 16),
			BytesToString(TypeStr, payload[0:32], 0),
			BytesToString(TypeDec, payload[50:52], 0),
			BytesToString(TypeDec, payload[52:54], 0),
			BytesToString(TypeDec, payload[48:50], 0),
		)
	case NotifyUDPReceive:
		if len(payload) < 20 {
			return "# malformed udp receive"
		}
		return fmt.Sprintf("# udp rcv: saddr %s sport %s dport %s - %d bytes",
			BytesToString(TypeAddr, payload[4:20], 16),
			BytesToString(TypeDec, payload[2:4], 0),
			BytesToString(TypeDec, payload[0:2], 0),
			len(payload[20:]),
		)
	case NotifyUDPReceiveNamed:
		if len(payload) < 52 {
			return "# malformed udp receive"
		}
		return fmt.Sprintf("# udp rcv: saddr %s [%s] sport %s dport %s - %d bytes",
			BytesToString(TypeAddr, payload[36:52], 16),
			BytesToString(TypeStr, payload[4:35], 0),
			BytesToString(TypeDec, payload[2:4], 0),
			BytesToString(TypeDec, payload[0:2], 0),
			len(payload[52:]),
		)
	case NotifyDestUnreachable:
		if len(payload) < 16 {
			return "# malformed destination unreachable"
		}
		return fmt.Sprintf("# dst unreachable: daddr %s",
			BytesToString(TypeAddr, payload[0:16], 16))
	default:
		return "# unknown notification"
	}
}

// NotificationKind classifies a parsed notification frame.
type NotificationKind byte

const (
	KindPingReply NotificationKind = NotificationKind(NotifyPingReply)
	KindUDPReceive NotificationKind = NotificationKind(NotifyUDPReceive)
	KindPingReplyNamed NotificationKind = NotificationKind(NotifyPingReplyNamed)
	KindUDPReceiveNamed NotificationKind = NotificationKind(NotifyUDPReceiveNamed)
	KindDestUnreachable NotificationKind = NotificationKind(NotifyDestUnreachable)
	KindUnknown NotificationKind = 0xFF
)

// Notification is a decoded, typed view over a notification frame's
// payload, handed to notify.Registry handlers instead of raw bytes.
type Notification struct {
	Kind    NotificationKind
	Source  [16]byte // for ping-reply / udp-receive: the peer address
	Label   string   // named variants only
	ID      uint16   // ping-reply only
	Seq     uint16   // ping-reply only
	SrcPort uint16   // udp-receive only
	DstPort uint16   // udp-receive only
	Size    int      // payload/body size reported by the device
	Text    string   // the rendered CLI line
}

// DecodeNotification classifies and extracts structured fields from a
// notification frame, in addition to the plain text rendering Frame.ToText
// already provides.
func DecodeNotification(f *Frame) Notification {
	code := f.Type() & 0x0F
	payload := f.Payload()
	n := Notification{Kind: NotificationKind(code), Text: notificationText(code, payload)}

	switch code {
	case NotifyPingReply:
		if len(payload) >= 22 {
			copy(n.Source[:], payload[0:16])
			n.Size = int(beUint16(payload[16:18]))
			n.ID = beUint16(payload[18:20])
			n.Seq = beUint16(payload[20:22])
		}
	case NotifyPingReplyNamed:
		if len(payload) >= 54 {
			n.Label = BytesToString(TypeStr, payload[0:32], 0)
			copy(n.Source[:], payload[32:48])
			n.Size = int(beUint16(payload[48:50]))
			n.ID = beUint16(payload[50:52])
			n.Seq = beUint16(payload[52:54])
		}
	case NotifyUDPReceive:
		if len(payload) >= 20 {
			n.DstPort = beUint16(payload[0:2])
			n.SrcPort = beUint16(payload[2:4])
			copy(n.Source[:], payload[4:20])
			n.Size = len(payload[20:])
		}
	case NotifyUDPReceiveNamed:
		if len(payload) >= 52 {
			n.DstPort = beUint16(payload[0:2])
			n.SrcPort = beUint16(payload[2:4])
			n.Label = BytesToString(TypeStr, payload[4:35], 0)
			copy(n.Source[:], payload[36:52])
			n.Size = len(payload[52:])
		}
	case NotifyDestUnreachable:
		if len(payload) >= 16 {
			copy(n.Source[:], payload[0:16])
		}
	default:
		n.Kind = KindUnknown
	}
	return n
}

func beUint16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}
