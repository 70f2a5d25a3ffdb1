package contract

import "testing"

func TestParseEncryption(t *testing.T) {
	tests := []struct {
		security string
		want     EncryptionKind
	}{
		{"WPA2-PSK", EncryptionWPA2},
		{"wpa2", EncryptionWPA2},
		{"RSN-CCMP", EncryptionWPA2},
		{"WPA3-SAE", EncryptionWPA3},
		{"wpa3", EncryptionWPA3},
		{"WPA-PSK-TKIP", EncryptionWPA},
		{"WEP-40", EncryptionWEP},
		{"wep", EncryptionWEP},
		{"WPA2-Enterprise", EncryptionEnterprise},
		{"802.1X", EncryptionEnterprise},
		{"EAP-TLS", EncryptionEnterprise},
		{"", EncryptionOpen},
		{"   ", EncryptionOpen},
		{"none", EncryptionOpen},
		{"garbage-value", EncryptionOpen},
		{"OWE", EncryptionOpen},
	}
	for _, tt := range tests {
		if got := ParseEncryption(tt.security); got != tt.want {
			t.Errorf("ParseEncryption(%q) = %q, want %q", tt.security, got, tt.want)
		}
	}
}

// Every input must map to exactly one member of the closed set.
func TestParseEncryptionTotal(t *testing.T) {
	known := map[EncryptionKind]bool{
		EncryptionOpen: true, EncryptionWEP: true, EncryptionWPA: true,
		EncryptionWPA2: true, EncryptionWPA3: true, EncryptionEnterprise: true,
	}
	inputs := []string{"", "x", "WPA2 WPA3", "wEp", "\t802.1x\n", "ÜMLÄUT"}
	for _, in := range inputs {
		if got := ParseEncryption(in); !known[got] {
			t.Errorf("ParseEncryption(%q) = %q, not in closed set", in, got)
		}
	}
}

func TestNetworkValidate(t *testing.T) {
	n := Network{SSID: "lab-net", SignalDBM: -61, Secured: true, Security: "WPA2-PSK"}
	if err := n.Validate(); err != nil {
		t.Fatalf("valid network rejected: %v", err)
	}
	if got := n.Encryption(); got != EncryptionWPA2 {
		t.Errorf("Encryption() = %q, want wpa2", got)
	}
	// Derivation must not rewrite the raw field.
	if n.Security != "WPA2-PSK" {
		t.Errorf("raw security field mutated to %q", n.Security)
	}

	bad := Network{SignalDBM: 10}
	err := bad.Validate()
	if err == nil {
		t.Fatal("network without ssid and positive dBm accepted")
	}
	ve, ok := err.(*ValidationError)
	if !ok || len(ve.Fields) != 2 {
		t.Errorf("expected 2 field errors, got %v", err)
	}
}
