package payment

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// PayU's request hash is a fixed-arity pipe-joined string: ten empty
// placeholder fields (udf1..udf5 plus five reserved) sit between email and
// salt. The field order and placeholder count are the provider's wire
// contract; do not touch them.
func payuRequestHash(key, txnid, amount, productinfo, firstname, email, salt string) string {
	seq := fmt.Sprintf("%s|%s|%s|%s|%s|%s|||||||||||%s",
		key, txnid, amount, productinfo, firstname, email, salt)
	sum := sha512.Sum512([]byte(seq))
	return hex.EncodeToString(sum[:])
}

// The response hash reverses the field order and substitutes the provider
// status for the placeholder block's far end.
func payuResponseHash(salt, status, email, firstname, productinfo, amount, txnid, key string) string {
	seq := fmt.Sprintf("%s|%s|||||||||||%s|%s|%s|%s|%s|%s",
		salt, status, email, firstname, productinfo, amount, txnid, key)
	sum := sha512.Sum512([]byte(seq))
	return hex.EncodeToString(sum[:])
}

// payuHashMatches compares a provider-supplied hash in constant time.
func payuHashMatches(expected, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(supplied)) == 1
}
