package metrics

import (
	"net"
	"strings"
	"testing"
	"time"
)

func TestFormatTags(t *testing.T) {
	t.Parallel()

	got := formatTags(map[string]string{
		"sink": "collector",
		"env":  " prod ",
		"":     "ignored",
	})
	want := "|#env:prod,sink:collector"
	if got != want {
		t.Fatalf("formatTags mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestFormatTagsEmpty(t *testing.T) {
	t.Parallel()

	if got := formatTags(nil); got != "" {
		t.Fatalf("formatTags(nil) = %q, want empty string", got)
	}
}

func TestDisabledClientIsNoop(t *testing.T) {
	t.Parallel()

	client, err := NewClient(Config{Enabled: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Must not panic or block without a connection.
	client.Count("notify.delivered", 1, nil)
	client.Timing("notify.duration", time.Millisecond, nil)

	if err := client.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
}

func TestNilClientIsNoop(t *testing.T) {
	t.Parallel()

	var client *Client
	client.Count("notify.delivered", 1, nil)
	client.Timing("notify.duration", time.Millisecond, nil)
	if err := client.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
}

func TestClientEmitsLines(t *testing.T) {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen udp: %v", err)
	}
	defer conn.Close()

	client, err := NewClient(Config{
		Enabled: true,
		Address: conn.LocalAddr().String(),
		Prefix:  "faultdesk",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	client.Count("notify.delivered", 1, map[string]string{"sink": "console"})

	buf := make([]byte, 256)
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("set deadline: %v", err)
	}
	n, _, err := conn.ReadFrom(buf)
	if err != nil {
		t.Fatalf("read udp: %v", err)
	}

	line := string(buf[:n])
	if line != "faultdesk.notify.delivered:1|c|#sink:console" {
		t.Fatalf("unexpected metric line: %q", line)
	}
}

func TestTimingUsesMilliseconds(t *testing.T) {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen udp: %v", err)
	}
	defer conn.Close()

	client, err := NewClient(Config{Enabled: true, Address: conn.LocalAddr().String()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	client.Timing("notify.duration", 1500*time.Millisecond, nil)

	buf := make([]byte, 256)
	if err := conn.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("set deadline: %v", err)
	}
	n, _, err := conn.ReadFrom(buf)
	if err != nil {
		t.Fatalf("read udp: %v", err)
	}

	line := string(buf[:n])
	if !strings.HasPrefix(line, "notify.duration:1500|ms") {
		t.Fatalf("unexpected metric line: %q", line)
	}
}
