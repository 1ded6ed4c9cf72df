package discovery

import (
	"net"
	"testing"

	"github.com/grandcat/zeroconf"
)

func TestParseServiceEntry(t *testing.T) {
	entry := &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{
			Instance: "carelog",
			Service:  ServiceType,
			Domain:   "local.",
		},
		HostName: "carelog-server.local.",
		Port:     5000,
		Text:     []string{"version=1", "path=/"},
		AddrIPv4: []net.IP{net.ParseIP("192.168.1.20")},
	}

	svc := parseServiceEntry(entry)
	if svc == nil {
		t.Fatal("parseServiceEntry() returned nil")
	}
	if svc.IP != "192.168.1.20" {
		t.Errorf("IP = %s", svc.IP)
	}
	if svc.Port != 5000 {
		t.Errorf("Port = %d", svc.Port)
	}
	if svc.BaseURL() != "http://192.168.1.20:5000" {
		t.Errorf("BaseURL() = %s", svc.BaseURL())
	}
	if svc.GetMetadata("version") != "1" {
		t.Errorf("metadata version = %q", svc.GetMetadata("version"))
	}
	if svc.GetMetadata("path") != "/" {
		t.Errorf("metadata path = %q", svc.GetMetadata("path"))
	}
}

func TestParseServiceEntryDefaultsPort(t *testing.T) {
	entry := &zeroconf.ServiceEntry{
		HostName: "carelog-server.local.",
		AddrIPv4: []net.IP{net.ParseIP("10.0.0.5")},
	}
	svc := parseServiceEntry(entry)
	if svc == nil {
		t.Fatal("parseServiceEntry() returned nil")
	}
	if svc.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", svc.Port, DefaultPort)
	}
}

func TestParseServiceEntryPrefersIPv4(t *testing.T) {
	entry := &zeroconf.ServiceEntry{
		HostName: "carelog-server.local.",
		Port:     5000,
		AddrIPv4: []net.IP{net.ParseIP("192.168.1.20")},
		AddrIPv6: []net.IP{net.ParseIP("fe80::1")},
	}
	svc := parseServiceEntry(entry)
	if svc.IP != "192.168.1.20" {
		t.Errorf("IP = %s, want the v4 address", svc.IP)
	}
}

func TestParseServiceEntryNoAddress(t *testing.T) {
	entry := &zeroconf.ServiceEntry{HostName: "carelog-server.local.", Port: 5000}
	if svc := parseServiceEntry(entry); svc != nil {
		t.Errorf("entry without addresses should be dropped, got %+v", svc)
	}
}

func TestValueFlagsInMetadata(t *testing.T) {
	entry := &zeroconf.ServiceEntry{
		HostName: "carelog-server.local.",
		Port:     5000,
		AddrIPv4: []net.IP{net.ParseIP("192.168.1.20")},
		Text:     []string{"standalone"},
	}
	svc := parseServiceEntry(entry)
	if svc.GetMetadata("standalone") != "" {
		t.Error("bare TXT key should map to empty value")
	}
	if _, ok := svc.Metadata["standalone"]; !ok {
		t.Error("bare TXT key should still be present")
	}
}
