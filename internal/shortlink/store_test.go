package shortlink

import (
	"strings"
	"testing"
)

func TestGenToken(t *testing.T) {
	seen := make(map[string]struct{})

	for i := 0; i < 100; i++ {
		token, err := genToken()
		if err != nil {
			t.Fatalf("genToken() error: %v", err)
		}
		if token == "" {
			t.Fatal("genToken() returned empty token")
		}
		if strings.ContainsAny(token, "+/=") {
			t.Errorf("token %q is not URL safe", token)
		}
		if _, dup := seen[token]; dup {
			t.Fatalf("token %q generated twice", token)
		}
		seen[token] = struct{}{}
	}
}

func TestKey(t *testing.T) {
	if got := key("abc"); got != "dl:abc" {
		t.Errorf("key() = %s, expected dl:abc", got)
	}
}
