package kbi

import (
	"encoding/binary"
	"fmt"
	"net/netip"
	"strconv"
	"strings"
	"time"
)

// ParamType identifies how a command-line parameter is coerced to and
// from wire bytes.
type ParamType int

const (
	TypeHex ParamType = iota
	TypeHexN
	TypeDec
	TypeStr
	TypeStrN
	TypeMAC
	TypeAddr
	TypeRole
	TypeSteeringData
	TypeStatus
	TypeTime
	TypeServices
	TypeAddrList
)

// StringToBytes coerces a CLI-style string argument into its wire
// representation. size is only meaningful for TypeDec (field width in
// bytes) and TypeStrN (fixed output width).
func StringToBytes(t ParamType, s string, size int) ([]byte, error) {
	switch t {
	case TypeDec:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, size)
		switch size {
		case 1:
			buf[0] = byte(n)
		case 2:
			binary.BigEndian.PutUint16(buf, uint16(n))
		case 4:
			binary.BigEndian.PutUint32(buf, uint32(n))
		default:
			return nil, fmt.Errorf("kbi: unsupported decimal field width %d", size)
		}
		return buf, nil
	case TypeHex:
		return hexDecode(strings.TrimPrefix(s, "0x"))
	case TypeStr:
		return []byte(s), nil
	case TypeStrN:
		if len(s) > size {
			s = s[:size]
		}
		buf := make([]byte, size)
		copy(buf, s)
		return buf, nil
	case TypeMAC:
		return StringToBytes(TypeHex, "0x"+strings.ReplaceAll(s, "-", ""), 0)
	case TypeAddr:
		addr, err := netip.ParseAddr(strings.ToLower(s))
		if err != nil {
			return nil, fmt.Errorf("kbi: bad IPv6 address %q: %w", s, err)
		}
		a16 := addr.As16()
		return a16[:], nil
	case TypeRole:
		v, ok := Roles[s]
		if !ok {
			return nil, fmt.Errorf("kbi: unknown role %q", s)
		}
		return []byte{v}, nil
	case TypeSteeringData:
		v, ok := SteeringData[s]
		if !ok {
			return nil, fmt.Errorf("kbi: unknown steering data %q", s)
		}
		return []byte{v}, nil
	default:
		return nil, fmt.Errorf("kbi: param type %d has no string coercion", t)
	}
}

func hexDecode(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("kbi: odd-length hex string %q", s)
	}
	buf := make([]byte, len(s)/2)
	for i := range buf {
		var v int
		if _, err := fmt.Sscanf(s[i*2:i*2+2], "%02x", &v); err != nil {
			return nil, err
		}
		buf[i] = byte(v)
	}
	return buf, nil
}

// BytesToString renders wire bytes back to the CLI's human-readable
// text form. size is only meaningful for TypeAddr (address length).
func BytesToString(t ParamType, b []byte, size int) string {
	switch t {
	case TypeStr:
		var sb strings.Builder
		for _, c := range b {
			if c == 0 {
				break
			}
			sb.WriteByte(c)
		}
		return sb.String()
	case TypeHex:
		var sb strings.Builder
		sb.WriteString("0x")
		for _, c := range b {
			fmt.Fprintf(&sb, "%02x", c)
		}
		return sb.String()
	case TypeDec:
		return strconv.FormatUint(bytesToUint(b), 10)
	case TypeMAC:
		var sb strings.Builder
		for len(b) > 0 {
			chunk := b
			if len(chunk) > 8 {
				chunk = chunk[:8]
			}
			parts := make([]string, len(chunk))
			for i, c := range chunk {
				parts[i] = fmt.Sprintf("%02x", c)
			}
			sb.WriteString(strings.Join(parts, "-"))
			sb.WriteString("\r\n")
			b = b[len(chunk):]
		}
		return sb.String()
	case TypeAddr:
		if size <= 0 || size > len(b) {
			size = len(b)
		}
		var a16 [16]byte
		copy(a16[:size], b[:size])
		return netip.AddrFrom16(a16).String()
	case TypeAddrList:
		states := map[byte]string{0: "T", 1: "R", 4: "I"}
		var sb strings.Builder
		for len(b) >= 17 {
			state, ok := states[b[0]]
			if !ok {
				state = "?"
			}
			fmt.Fprintf(&sb, "[%s] %s\r\n", state, BytesToString(TypeAddr, b[1:17], 16))
			b = b[17:]
		}
		return sb.String()
	case TypeRole:
		v := byte(bytesToUint(b))
		for name, code := range Roles {
			if code == v {
				return name
			}
		}
		return "bad role"
	case TypeStatus:
		if len(b) < 1 {
			return "unknown"
		}
		status, ok := StatusCodes[b[0]]
		if !ok {
			status = "unknown"
		}
		if status == "none" && len(b) >= 2 {
			status += NoneCodes[b[1]]
		}
		return status
	case TypeTime:
		if len(b) < 9 {
			return "unknown"
		}
		uptime := binary.BigEndian.Uint32(b[0:4])
		utc := binary.BigEndian.Uint32(b[4:8])
		temperature := int8(b[8])
		days := uptime / 86400
		rem := uptime % 86400
		return fmt.Sprintf(
			"Uptime           : %d days, %02d hours, %02d minutes and %02d seconds\r\n"+
				"Current UTC Time : %s\r\n"+
				"MCU Temperature  : %d°C",
			days, rem/3600, (rem%3600)/60, rem%60,
			time.Unix(int64(utc), 0).UTC().Format("15:04:05"),
			temperature,
		)
	case TypeServices:
		if len(b) < 3 {
			return "unknown"
		}
		meaning := func(v byte) string {
			if v == 0x01 {
				return "on"
			}
			return "off"
		}
		return fmt.Sprintf("DHCP server: %s\nDNS server: %s\nNTP server: %s",
			meaning(b[0]), meaning(b[1]), meaning(b[2]))
	default:
		return ""
	}
}

func bytesToUint(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}
