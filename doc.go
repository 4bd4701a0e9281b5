// Package depot provides an in-process key/value registry for
// controlled mutable state: an alternative to ad-hoc globals for
// dependency-injection containers, feature flags, and boot-time
// settings.
//
// Values are scalars (null, bool, int, float, string) or flat arrays
// of scalars. Each key carries a lock mask forbidding a subset of
// mutations, and a one-way Freeze makes the whole registry read-only.
// The intended shape of use is a bootstrap phase that defines and sets
// keys, a Freeze at the end of that phase, and read-only consumers
// thereafter:
//
//	r := depot.New()
//	_ = r.Set("app.name", depot.String("svc"), depot.WithLock(depot.ReadOnly))
//	_ = r.Define("features", depot.AsArray(), depot.WithLock(depot.ReadModify))
//	_ = r.Assign("features", "beta", depot.Bool(true))
//	r.Freeze()
//
// Every mutation checks, in order, the frozen flag, the structural
// preconditions, and the key's lock mask, and fails with an *OpError
// wrapping one of the package's sentinel errors. Reads never fail and
// never consult the lock state.
//
// The registry does not persist anything and is not a cache; its
// contents live in process memory for the process lifetime.
package depot
