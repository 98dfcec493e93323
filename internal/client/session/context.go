package session

import "context"

type storeKey struct{}

// NewContext returns a copy of ctx carrying s. Everything that runs under
// the returned context is inside the store's scope.
func NewContext(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, storeKey{}, s)
}

// FromContext returns the store carried by ctx, if any.
func FromContext(ctx context.Context) (*Store, bool) {
	s, ok := ctx.Value(storeKey{}).(*Store)
	return s, ok && s != nil
}

// MustFromContext returns the store carried by ctx. It panics when there is
// none: reaching for the session outside its scope is a wiring defect, not
// a runtime condition.
func MustFromContext(ctx context.Context) *Store {
	s, ok := FromContext(ctx)
	if !ok {
		panic("session: store used outside of its provider scope; wrap the context with session.NewContext")
	}
	return s
}
