package depot

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestProperty_MaskLifetimeMatchesKeyLifetime verifies that a key's
// lock mask exists only while the key exists: after Clear, redefining
// the key always starts read-write regardless of the old mask.
func TestProperty_MaskLifetimeMatchesKeyLifetime(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := New()
		key := rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "key")
		mask := Lock(rapid.IntRange(0, int(ReadOnly)).Draw(t, "mask"))

		require.NoError(t, r.Define(key, WithLock(mask)))
		if mask.Has(NoClear) {
			require.ErrorIs(t, r.Clear(key), ErrLocked)
			return
		}
		require.NoError(t, r.Clear(key))
		require.False(t, r.Has(key))

		// The old mask is gone with the key.
		require.NoError(t, r.Define(key))
		require.NoError(t, r.Set(key, Int(1)))
		require.NoError(t, r.Clear(key))
	})
}

// TestProperty_FrozenRegistryIsImmutable verifies that after Freeze no
// sequence of mutation attempts changes any observable read.
func TestProperty_FrozenRegistryIsImmutable(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := New()

		// Seed with a random set of keys.
		numKeys := rapid.IntRange(0, 6).Draw(t, "numKeys")
		for i := 0; i < numKeys; i++ {
			key := fmt.Sprintf("key-%d", i)
			if rapid.Bool().Draw(t, fmt.Sprintf("asArray-%d", i)) {
				require.NoError(t, r.Define(key, AsArray()))
				require.NoError(t, r.Append(key, Int(int64(i))))
			} else {
				require.NoError(t, r.Set(key, String(fmt.Sprintf("v%d", i))))
			}
		}

		r.Freeze()
		before := r.All()
		beforeKeys := r.Keys()

		// Hammer it with random mutations; all must fail ErrFrozen.
		numOps := rapid.IntRange(1, 20).Draw(t, "numOps")
		for i := 0; i < numOps; i++ {
			key := fmt.Sprintf("key-%d", rapid.IntRange(0, 8).Draw(t, fmt.Sprintf("target-%d", i)))
			var err error
			switch rapid.IntRange(0, 6).Draw(t, fmt.Sprintf("op-%d", i)) {
			case 0:
				err = r.Set(key, Int(99))
			case 1:
				err = r.Define(key)
			case 2:
				err = r.Clear(key)
			case 3:
				err = r.Assign(key, "sub", Int(99))
			case 4:
				err = r.Unassign(key, "sub")
			case 5:
				err = r.Prepend(key, Int(99))
			case 6:
				err = r.Append(key, Int(99))
			}
			require.ErrorIs(t, err, ErrFrozen)
		}

		after := r.All()
		require.Equal(t, len(before), len(after))
		for k, v := range before {
			require.True(t, v.Equal(after[k]), "key %s changed after freeze", k)
		}
		require.Equal(t, beforeKeys, r.Keys())
	})
}

// TestProperty_ListViewMatchesOpLog verifies that the list-like view of
// an array tracks a model slice through random append/prepend sequences.
func TestProperty_ListViewMatchesOpLog(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := New()
		require.NoError(t, r.Define("list", AsArray()))

		var model []int64
		numOps := rapid.IntRange(1, 25).Draw(t, "numOps")
		for i := 0; i < numOps; i++ {
			n := int64(rapid.IntRange(0, 1000).Draw(t, fmt.Sprintf("n-%d", i)))
			if rapid.Bool().Draw(t, fmt.Sprintf("prepend-%d", i)) {
				require.NoError(t, r.Prepend("list", Int(n)))
				model = append([]int64{n}, model...)
			} else {
				require.NoError(t, r.Append("list", Int(n)))
				model = append(model, n)
			}
		}

		got := r.Get("list", Null()).List()
		require.Len(t, got, len(model))
		for i, want := range model {
			require.Equal(t, want, got[i].IntVal())
		}
	})
}

// TestProperty_EveryFailureWrapsASentinel verifies that any error a
// mutation returns is an *OpError wrapping exactly one known sentinel.
func TestProperty_EveryFailureWrapsASentinel(t *testing.T) {
	sentinels := []error{ErrFrozen, ErrLocked, ErrAlreadyDefined, ErrNotDefined, ErrNotArray, ErrNotScalar}

	rapid.Check(t, func(t *rapid.T) {
		r := New()
		numOps := rapid.IntRange(1, 30).Draw(t, "numOps")
		for i := 0; i < numOps; i++ {
			key := fmt.Sprintf("k%d", rapid.IntRange(0, 3).Draw(t, fmt.Sprintf("key-%d", i)))
			mask := Lock(rapid.IntRange(0, int(ReadOnly)).Draw(t, fmt.Sprintf("mask-%d", i)))

			var err error
			switch rapid.IntRange(0, 7).Draw(t, fmt.Sprintf("op-%d", i)) {
			case 0:
				err = r.Define(key, WithLock(mask))
			case 1:
				err = r.Define(key, AsArray())
			case 2:
				err = r.Set(key, Int(int64(i)))
			case 3:
				err = r.Clear(key)
			case 4:
				err = r.Assign(key, "sub", Int(1))
			case 5:
				err = r.Unassign(key, "sub")
			case 6:
				err = r.Append(key, String("x"))
			case 7:
				if rapid.Bool().Draw(t, fmt.Sprintf("freeze-%d", i)) {
					r.Freeze()
				} else {
					err = r.Prepend(key, String("x"))
				}
			}
			if err == nil {
				continue
			}

			var opErr *OpError
			require.True(t, errors.As(err, &opErr), "unexpected error shape: %v", err)
			matched := 0
			for _, sentinel := range sentinels {
				if errors.Is(err, sentinel) {
					matched++
				}
			}
			require.Equal(t, 1, matched, "error should wrap exactly one sentinel: %v", err)
		}
	})
}
