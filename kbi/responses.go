package kbi

// responseFormatter renders a RespValue payload as the CLI text a
// human operator would expect from "show <name>"/"config <name>".
type responseFormatter struct {
	Name   string
	Format func([]byte) string
}

// responseTable is CLI2TEXT: it maps (frame type, opcode) pairs
// carrying a value response to their display name and formatter.
var responseTable = map[[2]byte]responseFormatter{
	{FrameResponse | RespValue, 0x01}: {"thver", func(b []byte) string { return BytesToString(TypeDec, b, 0) }},
	{FrameResponse | RespValue, 0x02}: {"uptime", func(b []byte) string { return BytesToString(TypeTime, b, 0) }},
	{FrameResponse | RespValue, 0x04}: {"autojoin", func(b []byte) string { return BytesToString(TypeDec, b, 0) }},
	{FrameResponse | RespValue, 0x05}: {"status", func(b []byte) string { return BytesToString(TypeStatus, b, 0) }},
	{FrameResponse | RespValue, 0x09}: {"socket", func(b []byte) string { return BytesToString(TypeDec, b, 0) }},
	{FrameResponse | RespValue, 0x0A}: {"swver", func(b []byte) string { return BytesToString(TypeStr, b, 0) }},
	{FrameResponse | RespValue, 0x0B}: {"hwver", func(b []byte) string { return BytesToString(TypeStr, b, 0) }},
	{FrameResponse | RespValue, 0x0C}: {"snum", func(b []byte) string { return BytesToString(TypeStr, b, 0) }},
	{FrameResponse | RespValue, 0x0D}: {"emac", func(b []byte) string { return BytesToString(TypeMAC, b, 0) }},
	{FrameResponse | RespValue, 0x0E}: {"eui64", func(b []byte) string { return BytesToString(TypeMAC, b, 0) }},
	{FrameResponse | RespValue, 0x0F}: {"lowpower", func(b []byte) string { return BytesToString(TypeDec, b, 0) }},
	{FrameResponse | RespValue, 0x10}: {"txpower", func(b []byte) string { return BytesToString(TypeDec, b, 0) }},
	{FrameResponse | RespValue, 0x11}: {"panid", func(b []byte) string { return BytesToString(TypeHex, b, 0) }},
	{FrameResponse | RespValue, 0x12}: {"channel", func(b []byte) string { return BytesToString(TypeDec, b, 0) }},
	{FrameResponse | RespValue, 0x13}: {"xpanid", func(b []byte) string { return BytesToString(TypeHex, b, 0) }},
	{FrameResponse | RespValue, 0x14}: {"netname", func(b []byte) string { return BytesToString(TypeStr, b, 0) }},
	{FrameResponse | RespValue, 0x15}: {"mkey", func(b []byte) string { return BytesToString(TypeHex, b, 0) }},
	{FrameResponse | RespValue, 0x16}: {"commcred", func(b []byte) string { return BytesToString(TypeStr, b, 0) }},
	{FrameResponse | RespValue, 0x17}: {"joincred", func(b []byte) string { return BytesToString(TypeStr, b, 0) }},
	{FrameResponse | RespValue, 0x18}: {"joiners", func(b []byte) string { return BytesToString(TypeMAC, b, 0) }},
	{FrameResponse | RespValue, 0x19}: {"role", func(b []byte) string { return BytesToString(TypeRole, b, 0) }},
	{FrameResponse | RespValue, 0x1A}: {"rloc16", func(b []byte) string { return BytesToString(TypeHex, b, 0) }},
	{FrameResponse | RespValue, 0x1C}: {"mlprefix", func(b []byte) string { return BytesToString(TypeAddr, b, 8) }},
	{FrameResponse | RespValue, 0x1D}: {"maxchild", func(b []byte) string { return BytesToString(TypeDec, b, 0) }},
	{FrameResponse | RespValue, 0x1E}: {"timeout", func(b []byte) string { return BytesToString(TypeDec, b, 0) }},
	{FrameResponse | RespValue, 0x1F}: {"xpanfilt", func(b []byte) string { return BytesToString(TypeHex, b, 0) }},
	{FrameResponse | RespValue, 0x20}: {"ipaddr", func(b []byte) string { return BytesToString(TypeAddrList, b, 0) }},
	{FrameResponse | RespValue, 0x22}: {"heui64", func(b []byte) string { return BytesToString(TypeMAC, b, 0) }},
	{FrameResponse | RespValue, 0x23}: {"pollrate", func(b []byte) string { return BytesToString(TypeDec, b, 0) }},
	{FrameResponse | RespValue, 0x29}: {"parent", func(b []byte) string { return BytesToString(TypeHex, b, 0) }},
	{FrameResponse | RespValue, 0x2A}: {"routert", func(b []byte) string { return trimHexPrefix(BytesToString(TypeHex, b, 0)) }},
	{FrameResponse | RespValue, 0x2B}: {"ldrdata", func(b []byte) string { return trimHexPrefix(BytesToString(TypeHex, b, 0)) }},
	{FrameResponse | RespValue, 0x2C}: {"netdata", func(b []byte) string { return trimHexPrefix(BytesToString(TypeHex, b, 0)) }},
	{FrameResponse | RespValue, 0x2D}: {"stats", func(b []byte) string { return trimHexPrefix(BytesToString(TypeHex, b, 0)) }},
	{FrameResponse | RespValue, 0x2E}: {"childt", func(b []byte) string { return trimHexPrefix(BytesToString(TypeHex, b, 0)) }},
	{FrameResponse | RespValue, 0x31}: {"hwmode", func(b []byte) string { return BytesToString(TypeDec, b, 0) }},
	{FrameResponse | RespValue, 0x32}: {"led", func(b []byte) string { return BytesToString(TypeDec, b, 0) }},
	{FrameResponse | RespValue, 0x33}: {"vname", func(b []byte) string { return BytesToString(TypeStr, b, 0) }},
	{FrameResponse | RespValue, 0x34}: {"vmodel", func(b []byte) string { return BytesToString(TypeStr, b, 0) }},
	{FrameResponse | RespValue, 0x35}: {"vdata", func(b []byte) string { return BytesToString(TypeStr, b, 0) }},
	{FrameResponse | RespValue, 0x36}: {"vswver", func(b []byte) string { return BytesToString(TypeStr, b, 0) }},
	{FrameResponse | RespValue, 0x37}: {"actstamp", func(b []byte) string { return BytesToString(TypeHex, b, 0) }},
	{FrameResponse | RespValue, 0x3A}: {"services", func(b []byte) string { return BytesToString(TypeServices, b, 0) }},
	{FrameResponse | RespValue, 0x3C}: {"commsid", func(b []byte) string { return BytesToString(TypeHex, b, 0) }},
	{FrameResponse | RespValue, 0x64}: {"cslch", func(b []byte) string { return BytesToString(TypeDec, b, 0) }},
	{FrameResponse | RespValue, 0x65}: {"csltout", func(b []byte) string { return BytesToString(TypeDec, b, 0) }},
	{FrameResponse | RespValue, 0x66}: {"cslprd", func(b []byte) string { return BytesToString(TypeDec, b, 0) }},
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[:2] == "0x" {
		return s[2:]
	}
	return s
}

// responseText renders a response frame's payload as the text a
// human operator would see, matching kbi_to_text's classification by
// response code.
func responseText(frameType, opcode byte, payload []byte) string {
	code := frameType & 0x0F
	switch code {
	case RespOK:
		if len(payload) == 0 {
			return ""
		}
	case RespValue:
		if fm, ok := responseTable[[2]byte{frameType, opcode}]; ok {
			return fm.Format(payload)
		}
		return "Wrong value or parser not implemented"
	case RespBadPar:
		return "Bad parameter"
	case RespBadCom:
		return "Bad command"
	case RespNotAll:
		return "Command not allowed"
	case RespMemErr:
		return "Memory allocation error"
	case RespCfgErr:
		return "Configuration settings missing"
	case RespFWUErr:
		return "Firmware update error"
	}
	return "Unknown error"
}
