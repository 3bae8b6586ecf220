package kbi

import (
	"fmt"
	"strings"
)

// ParamCoercer converts one CLI argument into its wire representation.
type ParamCoercer func(arg string) ([]byte, error)

// CommandSpec describes one text command's KBI encoding.
type CommandSpec struct {
	Text   string
	Class  byte
	Opcode byte
	Params []ParamCoercer
	// LastParamOptional documents the intent behind an entry whose
	// trailing parameter may be omitted; the actual optionality rule
	// (drop the last coercer when exactly one argument is missing) is
	// applied uniformly below regardless of this flag, matching the
	// original command table's real behavior.
	LastParamOptional bool
}

func dec(size int) ParamCoercer {
	return func(x string) ([]byte, error) { return StringToBytes(TypeDec, x, size) }
}

func strn(size int) ParamCoercer {
	return func(x string) ([]byte, error) { return StringToBytes(TypeStrN, x, size) }
}

func hexParam(x string) ([]byte, error) { return StringToBytes(TypeHex, x, 0) }
func macParam(x string) ([]byte, error) { return StringToBytes(TypeMAC, x, 0) }
func strParam(x string) ([]byte, error) { return StringToBytes(TypeStr, x, 0) }
func addrParam(x string) ([]byte, error) { return StringToBytes(TypeAddr, x, 0) }
func roleParam(x string) ([]byte, error) { return StringToBytes(TypeRole, x, 0) }
func steeringParam(x string) ([]byte, error) {
	return StringToBytes(TypeSteeringData, x, 0)
}

// mlPrefixParam truncates an ADDR coercion to its first 8 bytes,
// matching the mesh-local prefix command's use of only the network
// portion of an address.
func mlPrefixParam(x string) ([]byte, error) {
	b, err := addrParam(x)
	if err != nil {
		return nil, err
	}
	return b[:8], nil
}

// commandTable is the static text-command -> opcode table. Order
// matters: the first prefix match wins, which is why "config joiner
// remove all" is listed ahead of "config joiner remove" below --
// otherwise "remove all" would match the shorter entry with "all" as
// its MAC parameter. A slice is used because map iteration order
// cannot be relied upon.
var commandTable = []CommandSpec{
	{Text: "clear", Class: CmdClassExec, Opcode: 0x00},
	{Text: "config thver", Class: CmdClassWrite, Opcode: 0x01, Params: []ParamCoercer{dec(2)}},
	{Text: "show thver", Class: CmdClassRead, Opcode: 0x01},
	{Text: "show uptime", Class: CmdClassRead, Opcode: 0x02},
	{Text: "reset", Class: CmdClassExec, Opcode: 0x03},
	{Text: "config autojoin on", Class: CmdClassWrite, Opcode: 0x04},
	{Text: "config autojoin off", Class: CmdClassDel, Opcode: 0x04},
	{Text: "show autojoin", Class: CmdClassRead, Opcode: 0x04},
	{Text: "show status", Class: CmdClassRead, Opcode: 0x05},
	{Text: "ping", Class: CmdClassExec, Opcode: 0x06, Params: []ParamCoercer{addrParam, dec(2)}},
	{Text: "ifdown", Class: CmdClassExec, Opcode: 0x07},
	{Text: "ifup", Class: CmdClassExec, Opcode: 0x08},
	{Text: "config socket add", Class: CmdClassWrite, Opcode: 0x09, Params: []ParamCoercer{dec(2)}, LastParamOptional: true},
	{Text: "config socket del", Class: CmdClassDel, Opcode: 0x09, Params: []ParamCoercer{dec(2)}},
	{Text: "show swver", Class: CmdClassRead, Opcode: 0x0A},
	{Text: "show hwver", Class: CmdClassRead, Opcode: 0x0B},
	{Text: "show snum", Class: CmdClassRead, Opcode: 0x0C},
	{Text: "config emac", Class: CmdClassWrite, Opcode: 0x0D, Params: []ParamCoercer{macParam}},
	{Text: "show emac", Class: CmdClassRead, Opcode: 0x0D},
	{Text: "show eui64", Class: CmdClassRead, Opcode: 0x0E},
	{Text: "config lowpower on", Class: CmdClassWrite, Opcode: 0x0F},
	{Text: "config lowpower off", Class: CmdClassDel, Opcode: 0x0F},
	{Text: "show lowpower", Class: CmdClassRead, Opcode: 0x0F},
	{Text: "config txpower", Class: CmdClassWrite, Opcode: 0x10, Params: []ParamCoercer{dec(1)}},
	{Text: "show txpower", Class: CmdClassRead, Opcode: 0x10},
	{Text: "config panid", Class: CmdClassWrite, Opcode: 0x11, Params: []ParamCoercer{hexParam}},
	{Text: "show panid", Class: CmdClassRead, Opcode: 0x11},
	{Text: "config channel", Class: CmdClassWrite, Opcode: 0x12, Params: []ParamCoercer{dec(1)}},
	{Text: "show channel", Class: CmdClassRead, Opcode: 0x12},
	{Text: "config xpanid", Class: CmdClassWrite, Opcode: 0x13, Params: []ParamCoercer{hexParam}},
	{Text: "show xpanfilt", Class: CmdClassRead, Opcode: 0x1F},
	{Text: "show xpanid", Class: CmdClassRead, Opcode: 0x13},
	{Text: "config netname", Class: CmdClassWrite, Opcode: 0x14, Params: []ParamCoercer{strParam}},
	{Text: "show netname", Class: CmdClassRead, Opcode: 0x14},
	{Text: "config mkey", Class: CmdClassWrite, Opcode: 0x15, Params: []ParamCoercer{hexParam}},
	{Text: "show mkey", Class: CmdClassRead, Opcode: 0x15},
	{Text: "config commcred", Class: CmdClassWrite, Opcode: 0x16, Params: []ParamCoercer{strParam}},
	{Text: "show commcred", Class: CmdClassRead, Opcode: 0x16},
	{Text: "config joincred", Class: CmdClassWrite, Opcode: 0x17, Params: []ParamCoercer{strParam}},
	{Text: "show joincred", Class: CmdClassRead, Opcode: 0x17},
	{Text: "config joiner add", Class: CmdClassWrite, Opcode: 0x18, Params: []ParamCoercer{macParam, strParam}},
	{Text: "config joiner remove all", Class: CmdClassDel, Opcode: 0x18},
	{Text: "config joiner remove", Class: CmdClassDel, Opcode: 0x18, Params: []ParamCoercer{macParam}},
	{Text: "show joiners", Class: CmdClassRead, Opcode: 0x18},
	{Text: "config role", Class: CmdClassWrite, Opcode: 0x19, Params: []ParamCoercer{roleParam}},
	{Text: "show role", Class: CmdClassRead, Opcode: 0x19},
	{Text: "show rloc16", Class: CmdClassRead, Opcode: 0x1A},
	{Text: "config comm on", Class: CmdClassWrite, Opcode: 0x1B},
	{Text: "config comm off", Class: CmdClassDel, Opcode: 0x1B},
	{Text: "config mlprefix", Class: CmdClassWrite, Opcode: 0x1C, Params: []ParamCoercer{mlPrefixParam}},
	{Text: "show mlprefix", Class: CmdClassRead, Opcode: 0x1C},
	{Text: "config maxchild", Class: CmdClassWrite, Opcode: 0x1D, Params: []ParamCoercer{dec(1)}},
	{Text: "show maxchild", Class: CmdClassRead, Opcode: 0x1D},
	{Text: "config timeout", Class: CmdClassWrite, Opcode: 0x1E, Params: []ParamCoercer{dec(4)}},
	{Text: "show timeout", Class: CmdClassRead, Opcode: 0x1E},
	{Text: "config xpanfilt add", Class: CmdClassWrite, Opcode: 0x1F, Params: []ParamCoercer{hexParam}},
	{Text: "config xpanfilt remove all", Class: CmdClassDel, Opcode: 0x1F},
	{Text: "config ipaddr add", Class: CmdClassWrite, Opcode: 0x20, Params: []ParamCoercer{addrParam}},
	{Text: "config ipaddr remove", Class: CmdClassDel, Opcode: 0x20, Params: []ParamCoercer{addrParam}},
	{Text: "show ipaddr", Class: CmdClassRead, Opcode: 0x20},
	{Text: "config joinport", Class: CmdClassWrite, Opcode: 0x21, Params: []ParamCoercer{hexParam}},
	{Text: "show heui64", Class: CmdClassRead, Opcode: 0x22},
	{Text: "config pollrate", Class: CmdClassWrite, Opcode: 0x23, Params: []ParamCoercer{dec(4)}},
	{Text: "show pollrate", Class: CmdClassRead, Opcode: 0x23},
	{Text: "config outband", Class: CmdClassWrite, Opcode: 0x24},
	{Text: "config steering", Class: CmdClassWrite, Opcode: 0x25, Params: []ParamCoercer{steeringParam}},
	{Text: "config prefix add", Class: CmdClassWrite, Opcode: 0x26, Params: []ParamCoercer{addrParam, dec(1), hexParam}},
	{Text: "config prefix remove", Class: CmdClassDel, Opcode: 0x26, Params: []ParamCoercer{addrParam, dec(1)}},
	{Text: "config route add", Class: CmdClassWrite, Opcode: 0x27, Params: []ParamCoercer{addrParam, dec(1), hexParam}},
	{Text: "config route remove", Class: CmdClassDel, Opcode: 0x27, Params: []ParamCoercer{addrParam, dec(1)}},
	{Text: "config service add", Class: CmdClassWrite, Opcode: 0x28, Params: []ParamCoercer{dec(1), strParam, strParam}},
	{Text: "config service remove", Class: CmdClassDel, Opcode: 0x28, Params: []ParamCoercer{dec(1), strParam}},
	{Text: "show parent", Class: CmdClassRead, Opcode: 0x29},
	{Text: "show routert", Class: CmdClassRead, Opcode: 0x2A},
	{Text: "show ldrdata", Class: CmdClassRead, Opcode: 0x2B},
	{Text: "show netdata", Class: CmdClassRead, Opcode: 0x2C},
	{Text: "show stats", Class: CmdClassRead, Opcode: 0x2D},
	{Text: "show childt", Class: CmdClassRead, Opcode: 0x2E},
	{Text: "netcat", Class: CmdClassExec, Opcode: 0x2F, Params: []ParamCoercer{dec(2), dec(2), addrParam, hexParam}},
	{Text: "config hwmode", Class: CmdClassWrite, Opcode: 0x31, Params: []ParamCoercer{dec(1)}},
	{Text: "show hwmode", Class: CmdClassRead, Opcode: 0x31},
	{Text: "config led on", Class: CmdClassWrite, Opcode: 0x32},
	{Text: "config led off", Class: CmdClassDel, Opcode: 0x32},
	{Text: "show led", Class: CmdClassRead, Opcode: 0x32},
	{Text: "config vname", Class: CmdClassWrite, Opcode: 0x33, Params: []ParamCoercer{strParam}},
	{Text: "show vname", Class: CmdClassRead, Opcode: 0x33},
	{Text: "config vmodel", Class: CmdClassWrite, Opcode: 0x34, Params: []ParamCoercer{strParam}},
	{Text: "show vmodel", Class: CmdClassRead, Opcode: 0x34},
	{Text: "config vdata", Class: CmdClassWrite, Opcode: 0x35, Params: []ParamCoercer{strParam}},
	{Text: "show vdata", Class: CmdClassRead, Opcode: 0x35},
	{Text: "config vswver", Class: CmdClassWrite, Opcode: 0x36, Params: []ParamCoercer{strParam}},
	{Text: "show vswver", Class: CmdClassRead, Opcode: 0x36},
	{Text: "config actstamp", Class: CmdClassWrite, Opcode: 0x37, Params: []ParamCoercer{hexParam}},
	{Text: "show actstamp", Class: CmdClassRead, Opcode: 0x37, Params: []ParamCoercer{hexParam}},
	{Text: "nping", Class: CmdClassExec, Opcode: 0x38, Params: []ParamCoercer{strn(32), dec(2)}},
	{Text: "nnetcat", Class: CmdClassExec, Opcode: 0x39, Params: []ParamCoercer{dec(2), dec(2), strn(32), hexParam}},
	{Text: "show services", Class: CmdClassRead, Opcode: 0x3A},
	{Text: "config provurl", Class: CmdClassWrite, Opcode: 0x3B, Params: []ParamCoercer{strParam}},
	{Text: "show provurl", Class: CmdClassRead, Opcode: 0x3C},
	{Text: "show commsid", Class: CmdClassRead, Opcode: 0x3D},
	{Text: "exec pendget", Class: CmdClassExec, Opcode: 0x3E, Params: []ParamCoercer{addrParam, hexParam}, LastParamOptional: true},
	{Text: "exec pendset", Class: CmdClassExec, Opcode: 0x3E, Params: []ParamCoercer{addrParam, hexParam}},
	{Text: "exec activeget", Class: CmdClassExec, Opcode: 0x3F, Params: []ParamCoercer{addrParam, hexParam}, LastParamOptional: true},
	{Text: "exec activeset", Class: CmdClassExec, Opcode: 0x40, Params: []ParamCoercer{addrParam, hexParam}},
	{Text: "exec commget", Class: CmdClassExec, Opcode: 0x41, Params: []ParamCoercer{addrParam, hexParam}, LastParamOptional: true},
	{Text: "exec commset", Class: CmdClassExec, Opcode: 0x42, Params: []ParamCoercer{addrParam, hexParam}},
	{Text: "exec panidqry", Class: CmdClassExec, Opcode: 0x43, Params: []ParamCoercer{addrParam, hexParam, hexParam}},

	// Thread 1.3 commands.
	{Text: "config cslch", Class: CmdClassWrite, Opcode: 0x64, Params: []ParamCoercer{dec(1)}},
	{Text: "show cslch", Class: CmdClassRead, Opcode: 0x64},
	{Text: "config csltout", Class: CmdClassWrite, Opcode: 0x65, Params: []ParamCoercer{dec(4)}},
	{Text: "show csltout", Class: CmdClassRead, Opcode: 0x65},
	{Text: "config cslprd", Class: CmdClassWrite, Opcode: 0x66, Params: []ParamCoercer{dec(2)}},
	{Text: "show cslprd", Class: CmdClassRead, Opcode: 0x66},
}

// TextToKBI resolves a free-form text command into a KBI frame type,
// opcode, and payload, matching the first command-table entry whose
// text is a prefix of the input.
func TextToKBI(line string) (byte, byte, []byte, error) {
	words := strings.Fields(line)
	joined := strings.Join(words, " ")

	for _, spec := range commandTable {
		if !strings.HasPrefix(joined, spec.Text) {
			continue
		}
		keyLen := len(strings.Fields(spec.Text))
		if keyLen > len(words) {
			continue
		}
		received := words[keyLen:]
		required := spec.Params
		if len(required) > 0 && len(required) == len(received)+1 {
			required = required[:len(required)-1]
		}
		if len(received) < len(required) {
			return 0, 0, nil, fmt.Errorf("kbi: %q needs %d parameter(s)", spec.Text, len(required))
		}
		var payload []byte
		for i, coerce := range required {
			b, cErr := coerce(received[i])
			if cErr != nil {
				return 0, 0, nil, fmt.Errorf("kbi: bad parameter %q for %q: %w", received[i], spec.Text, cErr)
			}
			payload = append(payload, b...)
		}
		return FrameCommand | spec.Class, spec.Opcode, payload, nil
	}
	return 0, 0, nil, fmt.Errorf("kbi: unknown command %q", line)
}
