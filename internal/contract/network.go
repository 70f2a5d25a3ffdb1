package contract

import "strings"

// EncryptionKind classifies a WiFi access point's security scheme.
type EncryptionKind string

const (
	EncryptionOpen       EncryptionKind = "open"
	EncryptionWEP        EncryptionKind = "wep"
	EncryptionWPA        EncryptionKind = "wpa"
	EncryptionWPA2       EncryptionKind = "wpa2"
	EncryptionWPA3       EncryptionKind = "wpa3"
	EncryptionEnterprise EncryptionKind = "enterprise"
)

// ParseEncryption maps the orchestrator's free-text security string to a
// closed EncryptionKind. Matching is case-insensitive and total: empty or
// unrecognized input yields EncryptionOpen.
func ParseEncryption(security string) EncryptionKind {
	s := strings.ToLower(strings.TrimSpace(security))
	switch {
	case strings.Contains(s, "enterprise"), strings.Contains(s, "802.1x"), strings.Contains(s, "eap"):
		return EncryptionEnterprise
	case strings.Contains(s, "wpa3"), strings.Contains(s, "sae"):
		return EncryptionWPA3
	case strings.Contains(s, "wpa2"), strings.Contains(s, "rsn"):
		return EncryptionWPA2
	case strings.Contains(s, "wpa"):
		return EncryptionWPA
	case strings.Contains(s, "wep"):
		return EncryptionWEP
	default:
		return EncryptionOpen
	}
}

// Network is one scanned WiFi access point.
type Network struct {
	SSID      string `json:"ssid"`
	SignalDBM int    `json:"signal_dbm"`
	Secured   bool   `json:"secured"`
	Security  string `json:"security,omitempty"`
	Channel   int    `json:"channel,omitempty"`
}

// Encryption derives the closed encryption kind from the free-text security
// field. Derivation only; the raw field is never rewritten.
func (n Network) Encryption() EncryptionKind {
	return ParseEncryption(n.Security)
}

func (n *Network) Validate() error {
	ve := &ValidationError{Resource: "network"}
	if n.SSID == "" {
		ve.addf("ssid", "required")
	}
	if n.SignalDBM > 0 {
		ve.addf("signal_dbm", "must be <= 0 dBm, got %d", n.SignalDBM)
	}
	return ve.orNil()
}

// NetworkList is the payload of the WiFi scan endpoint.
type NetworkList struct {
	Networks []Network `json:"networks"`
}

func (l *NetworkList) Validate() error {
	ve := &ValidationError{Resource: "network_list"}
	for i := range l.Networks {
		if err := l.Networks[i].Validate(); err != nil {
			ve.addf("networks", "entry %d: %v", i, err)
		}
	}
	return ve.orNil()
}
