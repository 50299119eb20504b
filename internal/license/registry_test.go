package license

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLicenses() map[string]License {
	return map[string]License{
		"pro": {
			Library: "artifacts/pro.so",
			Addresses: map[string][]int{
				"10.0.0.5": {5555},
				"10.0.0.6": {5555, 5556},
			},
		},
		"trial": {
			Library:   "artifacts/trial.so",
			Addresses: map[string][]int{},
		},
	}
}

func TestRegistryFind(t *testing.T) {
	reg := NewRegistry(testLicenses())

	lic, ok := reg.Find("pro")
	require.True(t, ok)
	assert.Equal(t, "artifacts/pro.so", lic.Library)

	_, ok = reg.Find("enterprise")
	assert.False(t, ok)

	assert.Equal(t, 2, reg.Len())
	assert.ElementsMatch(t, []string{"pro", "trial"}, reg.Names())
}

func TestRegistryCopiesInput(t *testing.T) {
	input := testLicenses()
	reg := NewRegistry(input)

	delete(input, "pro")

	_, ok := reg.Find("pro")
	assert.True(t, ok, "registry must not alias the caller's map")
}

func TestLicenseAllows(t *testing.T) {
	lic := testLicenses()["pro"]

	tests := []struct {
		name      string
		addr      string
		port      int
		allowAddr bool
		allowPort bool
	}{
		{
			name:      "bound address and port",
			addr:      "10.0.0.5",
			port:      5555,
			allowAddr: true,
			allowPort: true,
		},
		{
			name:      "bound address, wrong port",
			addr:      "10.0.0.5",
			port:      6666,
			allowAddr: true,
			allowPort: false,
		},
		{
			name:      "second allowed port",
			addr:      "10.0.0.6",
			port:      5556,
			allowAddr: true,
			allowPort: true,
		},
		{
			name:      "unknown address",
			addr:      "192.168.1.1",
			port:      5555,
			allowAddr: false,
			allowPort: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowAddr, lic.AllowsAddr(tt.addr))
			assert.Equal(t, tt.allowPort, lic.AllowsPort(tt.addr, tt.port))
		})
	}
}
