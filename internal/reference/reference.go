// Package reference generates human-presentable identifiers for wallets and
// transactions. Values are time-plus-random and unique with overwhelming
// probability; the stores' unique constraints are the actual guarantee, and
// callers retry on a collision.
package reference

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"
)

const (
	accountPrefix     = "WAL"
	transactionPrefix = "TXN"
)

// AccountNumber returns a fresh wallet account number, e.g. WAL567890121234.
func AccountNumber() string {
	return generate(accountPrefix)
}

// TransactionRef returns a fresh transaction reference, e.g. TXN567890121234.
func TransactionRef() string {
	return generate(transactionPrefix)
}

// generate formats a prefix, the last 8 digits of the current epoch
// milliseconds, and 4 random digits.
func generate(prefix string) string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	if len(ts) > 8 {
		ts = ts[len(ts)-8:]
	}
	return prefix + ts + randomDigits()
}

func randomDigits() string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		// crypto/rand only fails if the OS entropy source is broken
		panic(fmt.Sprintf("reference: read random: %v", err))
	}
	return fmt.Sprintf("%04d", n.Int64())
}
