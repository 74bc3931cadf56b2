package statsd

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePrefix(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"  portal.client  ": "portal.client",
		"..foo..":           "foo",
		".":                 "",
		"":                  "",
	}
	for input, want := range tests {
		assert.Equal(t, want, sanitizePrefix(input), "input %q", input)
	}
}

func TestNormalizeMetricName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		" api/request ":  "api_request",
		"api..duration":  "api.duration",
		"two  spaces":    "two__spaces",
		"notices/1/read": "notices_1_read",
	}
	for input, want := range tests {
		assert.Equal(t, want, normalizeMetricName(input), "input %q", input)
	}
}

func TestFormatTags(t *testing.T) {
	t.Parallel()

	got := formatTags(
		map[string]string{"app": "portal", " env ": " dev "},
		map[string]string{"status": "200", "": "ignored", "env": "test"},
	)
	assert.Equal(t, "|#app:portal,env:test,status:200", got)
	assert.Equal(t, "", formatTags(nil, nil))
}

func TestDisabledClientDropsMetrics(t *testing.T) {
	c, err := NewClient(Config{Enabled: false, Address: "127.0.0.1:8125"})
	require.NoError(t, err)
	assert.False(t, c.Enabled())
	c.Count("api.request", 1, nil)
	require.NoError(t, c.Close())

	var nilClient *Client
	nilClient.Count("x", 1, nil)
	assert.False(t, nilClient.Enabled())
}

func TestClientWritesLineProtocol(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	c, err := NewClient(Config{
		Enabled:    true,
		Address:    pc.LocalAddr().String(),
		Prefix:     "portal.",
		GlobalTags: map[string]string{"app": "cli"},
	})
	require.NoError(t, err)
	defer c.Close()
	require.True(t, c.Enabled())

	c.Timing("api.request.duration", 1500*time.Microsecond, map[string]string{"resource": "notices"})

	buf := make([]byte, 512)
	require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
	n, _, err := pc.ReadFrom(buf)
	require.NoError(t, err)

	line := string(buf[:n])
	assert.True(t, strings.HasPrefix(line, "portal.api.request.duration:1.5|ms"), line)
	assert.True(t, strings.HasSuffix(line, "|#app:cli,resource:notices"), line)
}

func TestRecorder(t *testing.T) {
	var r Recorder
	r.Count("api.request", 1, map[string]string{"status": "200"})
	r.Timing("api.request.duration", 2*time.Millisecond, nil)

	require.Len(t, r.Metrics(), 2)
	got := r.Named("api.request")
	require.Len(t, got, 1)
	assert.Equal(t, "200", got[0].Tags["status"])
	assert.InDelta(t, 2.0, r.Named("api.request.duration")[0].Value, 0.001)
}
