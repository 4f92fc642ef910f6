package redis

import "testing"

func TestLockKey(t *testing.T) {
	if got := lockKey("register:a@b.com"); got != "lock:register:a@b.com" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestReleaseScriptComparesToken(t *testing.T) {
	if releaseScript.Hash() == "" {
		t.Fatalf("script hash should be computed")
	}
}
