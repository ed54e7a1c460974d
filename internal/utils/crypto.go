package utils

import (
	"crypto/rand"
	"math/big"
)

// RandomInt generates a cryptographically secure random integer in the range [0, max)
func RandomInt(max int) int {
	if max <= 0 {
		return 0
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic("failed to generate random number: " + err.Error())
	}

	return int(n.Int64())
}

// RandomChoice picks one entry of a fixed pool. An empty pool yields "".
func RandomChoice(pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[RandomInt(len(pool))]
}
