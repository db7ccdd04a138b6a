package slack

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"testing"
	"time"
)

func signBody(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "v0:%s:", timestamp)
	mac.Write(body)
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	const secret = "8f742231b10e8888abcd99yyyzzz85a5"
	now := time.Unix(1700000100, 0)
	ts := "1700000000"
	body := []byte(`{"type":"event_callback"}`)

	good := signBody(secret, ts, body)
	if !verifySignatureAt(secret, ts, good, body, now) {
		t.Fatal("valid signature rejected")
	}
	if verifySignatureAt(secret, ts, good, []byte(`tampered`), now) {
		t.Fatal("tampered body accepted")
	}
	if verifySignatureAt("wrong-secret", ts, good, body, now) {
		t.Fatal("wrong secret accepted")
	}
	if verifySignatureAt(secret, "not-a-number", good, body, now) {
		t.Fatal("garbage timestamp accepted")
	}
	// Stale timestamp outside the freshness window.
	if verifySignatureAt(secret, ts, good, body, now.Add(time.Hour)) {
		t.Fatal("stale request accepted")
	}
}

func TestParseTS(t *testing.T) {
	got, err := ParseTS("1425097600.000003")
	if err != nil {
		t.Fatalf("ParseTS: %v", err)
	}
	if got.Unix() != 1425097600 {
		t.Fatalf("seconds = %d", got.Unix())
	}

	if _, err := ParseTS("yesterday"); err == nil {
		t.Fatal("expected error for non-numeric ts")
	}
}

func TestEventDecoding(t *testing.T) {
	raw := `{
		"type": "event_callback",
		"event": {
			"type": "message",
			"subtype": "message_changed",
			"channel": "C01",
			"message": {"user": "U1", "text": "edited text", "ts": "1700000000.000100"}
		}
	}`
	var cb EventCallback
	if err := json.Unmarshal([]byte(raw), &cb); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cb.Event == nil || !cb.Event.IsEdit() {
		t.Fatalf("expected edit event, got %+v", cb.Event)
	}
	if cb.Event.Message.Text != "edited text" {
		t.Fatalf("edited text = %q", cb.Event.Message.Text)
	}

	var plain EventCallback
	if err := json.Unmarshal([]byte(`{"type":"event_callback","event":{"type":"message","user":"U1","text":"wfh","ts":"1.2","channel":"C01"}}`), &plain); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if plain.Event.IsEdit() || plain.Event.FromBot() {
		t.Fatalf("plain message misclassified: %+v", plain.Event)
	}
}
