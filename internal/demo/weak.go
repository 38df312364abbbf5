package demo

import "ptrkit/pkg/shared"

type cacheEntry struct {
	key string
}

// WeakObserver shows a non-owning reference upgrading while owners are
// alive and failing cleanly after the object expires.
func (r *Runner) WeakObserver() error {
	r.header("weak references: observe without owning")
	r.prose("A `Weak` handle watches an object without keeping it alive. " +
		"`Upgrade` yields a temporary owner while the object lives, and " +
		"refuses once it is gone. The object's lifetime never changes because " +
		"someone is watching.")

	s := shared.NewWithDeleter(cacheEntry{key: "user:42"}, func(e *cacheEntry) {
		r.printf("deleter: evicting %s\n", e.key)
	})
	w, err := s.Downgrade()
	if err != nil {
		return err
	}
	r.printf("observer created, owners: %d, expired: %v\n", w.Owners(), w.Expired())

	if up, ok := w.Upgrade(); ok {
		r.printf("upgrade succeeded, key=%s, owners now: %d\n", up.MustGet().key, up.Owners())
		if err := up.Drop(); err != nil {
			return err
		}
	}

	if err := s.Drop(); err != nil {
		return err
	}
	r.printf("last owner dropped, expired: %v\n", w.Expired())

	if _, ok := w.Upgrade(); !ok {
		r.printf("upgrade after expiry: refused\n")
	}
	return w.Drop()
}
