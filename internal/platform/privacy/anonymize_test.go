package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymizeIP(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"ipv4 standard address", "192.168.1.47", "192.168.1.0"},
		{"ipv4 with port", "10.1.2.3:54321", "10.1.2.0"},
		{"ipv4 mapped ipv6", "::ffff:172.16.50.255", "172.16.50.0"},
		{"ipv6 keeps /48", "2001:db8:85a3::8a2e:370:7334", "2001:db8:85a3::"},
		{"ipv6 with port", "[2001:db8:85a3::1]:443", "2001:db8:85a3::"},
		{"empty", "", "unknown"},
		{"garbage", "not-an-ip", "invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AnonymizeIP(tt.input))
		})
	}
}

func TestMaskIdentifier(t *testing.T) {
	assert.Equal(t, "CU*****31", MaskIdentifier("CUST-0031"))
	assert.Equal(t, "NP********17", MaskIdentifier("NPA-BDC-0917"))
	assert.Equal(t, "******", MaskIdentifier("QC-553"))
	assert.Equal(t, "", MaskIdentifier(""))
}
