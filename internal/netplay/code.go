// Package netplay relays a game between two processes over TCP. Each side
// keeps its own board; moves travel as 5-byte frames and the boards are
// compared by fingerprint after every committed move.
package netplay

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strconv"
)

// codeAlphabet holds the 64 code characters; a character's index is its
// 6-bit value.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789*#"

// CodeLen is the length of a game code: 64 bits at 6 bits per character.
const CodeLen = 11

var ErrInvalidCode = errors.New("invalid game code")

// Code is what a game code carries: where the host listens and the id the
// joining side must present.
type Code struct {
	IP   netip.Addr
	Port uint16
	UID  uint16
}

// Addr returns the host address in host:port form.
func (c Code) Addr() string {
	return net.JoinHostPort(c.IP.String(), strconv.Itoa(int(c.Port)))
}

// EncodeCode packs an IPv4 address, port and id into a game code, most
// significant bits first.
func EncodeCode(ip netip.Addr, port, uid uint16) (string, error) {
	if !ip.Is4() && !ip.Is4In6() {
		return "", fmt.Errorf("%w: %s is not IPv4", ErrInvalidCode, ip)
	}
	a := ip.Unmap().As4()
	v := uint64(a[0])<<56 | uint64(a[1])<<48 | uint64(a[2])<<40 | uint64(a[3])<<32 |
		uint64(port)<<16 | uint64(uid)

	var buf [CodeLen]byte
	for i := CodeLen - 1; i >= 0; i-- {
		buf[i] = codeAlphabet[v&63]
		v >>= 6
	}
	return string(buf[:]), nil
}

// DecodeCode reverses EncodeCode.
func DecodeCode(s string) (Code, error) {
	if len(s) != CodeLen {
		return Code{}, fmt.Errorf("%w: %q must be %d characters", ErrInvalidCode, s, CodeLen)
	}
	var v uint64
	for i := 0; i < CodeLen; i++ {
		d := codeValue(s[i])
		if d < 0 {
			return Code{}, fmt.Errorf("%w: %q has bad character %q", ErrInvalidCode, s, s[i])
		}
		// The first character carries only the top 4 bits.
		if i == 0 && d >= 16 {
			return Code{}, fmt.Errorf("%w: %q overflows 64 bits", ErrInvalidCode, s)
		}
		v = v<<6 | uint64(d)
	}

	ip := netip.AddrFrom4([4]byte{byte(v >> 56), byte(v >> 48), byte(v >> 40), byte(v >> 32)})
	return Code{IP: ip, Port: uint16(v >> 16), UID: uint16(v)}, nil
}

func codeValue(c byte) int {
	switch {
	case c >= 'A' && c <= 'Z':
		return int(c - 'A')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 26
	case c >= '0' && c <= '9':
		return int(c-'0') + 52
	case c == '*':
		return 62
	case c == '#':
		return 63
	}
	return -1
}
