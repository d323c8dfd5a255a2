package reference

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccountNumber(t *testing.T) {
	acct := AccountNumber()
	assert.True(t, strings.HasPrefix(acct, "WAL"))
	assert.Len(t, acct, 15)
}

func TestTransactionRef(t *testing.T) {
	ref := TransactionRef()
	assert.True(t, strings.HasPrefix(ref, "TXN"))
	assert.Len(t, ref, 15)

	for _, c := range ref[3:] {
		assert.True(t, c >= '0' && c <= '9', "expected digit, got %q", c)
	}
}

func TestTransactionRefUniqueness(t *testing.T) {
	seen := make(map[string]struct{})
	dupes := 0
	for i := 0; i < 1000; i++ {
		ref := TransactionRef()
		if _, ok := seen[ref]; ok {
			dupes++
		}
		seen[ref] = struct{}{}
	}
	// 4 random digits within the same millisecond leave a small collision
	// window; the store's unique constraint catches those. Just make sure the
	// generator is not degenerate.
	assert.Less(t, dupes, 10)
}
