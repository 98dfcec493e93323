// Package metadata stores small key/value facts the client remembers
// between runs, such as the last email used to log in.
package metadata

import (
	"context"
)

// KeyLastEmail holds the email of the last successful login.
const KeyLastEmail = "last_email"

// Repository is a byte-valued key/value store. Get returns (nil, nil) for a
// missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
