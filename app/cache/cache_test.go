package cache

import (
	"testing"
	"time"

	"github.com/lysyi3m/prop-comb/app/proposal"
)

func TestCacheHitWithinTTL(t *testing.T) {
	c := NewCache(time.Minute)
	result := &proposal.FetchResult{Note: "fresh"}

	key := Key([]string{"EIP"}, 5, "")
	c.Set(key, result)

	cached, found := c.Get(key)
	if !found {
		t.Fatal("Expected cache hit")
	}
	if cached != result {
		t.Error("Expected the identical result pointer back")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(10 * time.Millisecond)

	key := Key([]string{"EIP"}, 5, "")
	c.Set(key, &proposal.FetchResult{})

	time.Sleep(30 * time.Millisecond)

	if _, found := c.Get(key); found {
		t.Error("Expected entry to expire")
	}
	if c.Len() != 0 {
		t.Errorf("Expected expired entry dropped on read, got %d entries", c.Len())
	}
}

func TestCacheKeyIdentity(t *testing.T) {
	base := Key([]string{"EIP", "BIP"}, 5, proposal.StatusDraft)

	if Key([]string{"eip", " bip "}, 5, proposal.StatusDraft) != base {
		t.Error("Key must normalize case and whitespace")
	}
	if Key([]string{"BIP", "EIP"}, 5, proposal.StatusDraft) == base {
		t.Error("Key must be order-sensitive; the response preserves request order")
	}
	if Key([]string{"EIP", "BIP"}, 10, proposal.StatusDraft) == base {
		t.Error("Key must include the limit")
	}
	if Key([]string{"EIP", "BIP"}, 5, proposal.StatusFinal) == base {
		t.Error("Key must include the status filter")
	}
}

func TestCacheInvalidateByStandard(t *testing.T) {
	c := NewCache(time.Minute)

	c.Set(Key([]string{"EIP", "BIP"}, 5, ""), &proposal.FetchResult{})
	c.Set(Key([]string{"BIP"}, 5, ""), &proposal.FetchResult{})
	c.Set(Key([]string{"TIP"}, 5, ""), &proposal.FetchResult{})

	c.Invalidate("bip")

	if _, found := c.Get(Key([]string{"EIP", "BIP"}, 5, "")); found {
		t.Error("Expected multi-standard entry containing BIP to be dropped")
	}
	if _, found := c.Get(Key([]string{"BIP"}, 5, "")); found {
		t.Error("Expected BIP entry to be dropped")
	}
	if _, found := c.Get(Key([]string{"TIP"}, 5, "")); !found {
		t.Error("Expected unrelated TIP entry to survive")
	}
}
