// Package kbi implements the Kirale Binary Interface: the framed
// request/response/notification protocol spoken over a COBS-PPP
// encoded serial link between the host and an attached Thread node.
//
// Only the current KBI dialect is implemented (frame type byte is a
// frame-class nibble followed by a command/response-code nibble). The
// legacy, bit-mask based dialect used by older firmware generations
// shares several opcode numbers with different meanings and is
// intentionally not compiled in; Dialect exists as the extension point
// a legacy table would register against.
package kbi

// Dialect distinguishes KBI wire-format generations. Only
// DialectCurrent is populated by this package.
type Dialect int

const (
	DialectCurrent Dialect = iota
)

// Frame class, encoded in the high nibble of the type byte.
const (
	FrameReserved     byte = 0x00 << 4
	FrameCommand      byte = 0x01 << 4
	FrameResponse     byte = 0x02 << 4
	FrameNotification byte = 0x03 << 4
)

// Command class, the low nibble of a command frame's type byte.
const (
	CmdClassWrite byte = 0x00
	CmdClassExec  byte = 0x00
	CmdClassRead  byte = 0x01
	CmdClassDel   byte = 0x02
	cmdClassResv  byte = 0x03
)

// Response code, the low nibble of a response frame's type byte.
const (
	RespOK      byte = 0x00
	RespValue   byte = 0x01
	RespBadPar  byte = 0x02
	RespBadCom  byte = 0x03
	RespNotAll  byte = 0x04
	RespMemErr  byte = 0x05
	RespCfgErr  byte = 0x06
	RespFWUErr  byte = 0x07
)

// Notification code, the low nibble of a notification frame's type byte.
const (
	NotifyPingReply         byte = 0x00
	NotifyUDPReceive        byte = 0x01
	NotifyPingReplyNamed    byte = 0x02
	NotifyUDPReceiveNamed   byte = 0x03
	NotifyDestUnreachable   byte = 0x04
)

// CmdFirmwareUpdate is the special opcode used to push a firmware
// block over the KBI-path DFU flash engine.
const CmdFirmwareUpdate byte = 0x30

// Roles maps a Thread device role name to its wire value.
var Roles = map[string]byte{
	"leader":        6,
	"router":        1,
	"reed":          2,
	"fed":           3,
	"med":           4,
	"sed":           5,
	"not configured": 0,
}

// StatusCodes maps the primary status byte to its description.
var StatusCodes = map[byte]string{
	0:  "none",
	1:  "booting",
	2:  "discovering",
	3:  "comminssioning",
	4:  "attaching",
	5:  "joined",
	6:  "rebooting",
	7:  "change partition",
	8:  "attaching",
	9:  "not joined",
	10: "rejected",
	11: "attaching",
	12: "attaching",
	13: "rebooting",
	14: "rebooting",
	15: "attaching",
	16: "clearing",
}

// NoneCodes maps the secondary status byte (only meaningful when the
// primary status is "none") to its suffix.
var NoneCodes = map[byte]string{
	0: "",
	1: " - saved configuration",
	2: " - network not found",
	3: " - comminssioning failed",
	4: " - attaching failed",
}

// SteeringData maps a steering-data keyword to its wire value.
var SteeringData = map[string]byte{
	"all":  0,
	"none": 1,
	"on":   2,
}
