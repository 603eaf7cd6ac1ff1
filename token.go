package bbtr

import "github.com/google/uuid"

// Token uniquely identifies one running handler invocation. It is the key
// of the Handler Task Pool, mapping 1:1 to an in-flight (Batch, retries)
// record so that the record can be reconstituted if the invocation
// crashes.
type Token uuid.UUID

// String returns the token's canonical textual representation, suitable
// for structured log fields.
func (t Token) String() string {
	return uuid.UUID(t).String()
}

// newToken allocates a fresh Token. Tokens are never reused within a
// Runner's lifetime.
func newToken() Token {
	return Token(uuid.New())
}
