package netplay

import (
	"errors"
	"net/netip"
	"testing"
)

func TestCodeRoundTrip(t *testing.T) {
	tests := []struct {
		ip   string
		port uint16
		uid  uint16
		want string
	}{
		{"0.0.0.0", 0, 0, "AAAAAAAAAAA"},
		{"255.255.255.255", 65535, 65535, "P##########"},
		{"127.0.0.1", 5000, 42, ""},
		{"192.168.1.20", 8080, 1, ""},
		{"10.0.0.7", 1, 65535, ""},
	}
	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			ip := netip.MustParseAddr(tt.ip)
			code, err := EncodeCode(ip, tt.port, tt.uid)
			if err != nil {
				t.Fatal(err)
			}
			if len(code) != CodeLen {
				t.Fatalf("len(%q) = %d, want %d", code, len(code), CodeLen)
			}
			if tt.want != "" && code != tt.want {
				t.Errorf("EncodeCode = %q, want %q", code, tt.want)
			}

			got, err := DecodeCode(code)
			if err != nil {
				t.Fatalf("DecodeCode(%q): %v", code, err)
			}
			if got.IP != ip || got.Port != tt.port || got.UID != tt.uid {
				t.Errorf("DecodeCode(%q) = %+v, want %s:%d uid %d", code, got, ip, tt.port, tt.uid)
			}
		})
	}
}

func TestCodeAddr(t *testing.T) {
	c := Code{IP: netip.MustParseAddr("127.0.0.1"), Port: 5000}
	if got := c.Addr(); got != "127.0.0.1:5000" {
		t.Errorf("Addr() = %q", got)
	}
}

func TestEncodeCodeMappedIPv4(t *testing.T) {
	mapped := netip.MustParseAddr("::ffff:10.1.2.3")
	code, err := EncodeCode(mapped, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeCode(code)
	if err != nil {
		t.Fatal(err)
	}
	if want := netip.MustParseAddr("10.1.2.3"); got.IP != want {
		t.Errorf("IP = %s, want %s", got.IP, want)
	}
}

func TestEncodeCodeRejectsIPv6(t *testing.T) {
	if _, err := EncodeCode(netip.MustParseAddr("2001:db8::1"), 1, 1); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("err = %v, want ErrInvalidCode", err)
	}
}

func TestDecodeCodeErrors(t *testing.T) {
	for _, s := range []string{
		"",
		"AAAAAAAAAA",
		"AAAAAAAAAAAA",
		"AAAAA!AAAAA",
		"Q##########",
	} {
		if _, err := DecodeCode(s); !errors.Is(err, ErrInvalidCode) {
			t.Errorf("DecodeCode(%q) err = %v, want ErrInvalidCode", s, err)
		}
	}
}
