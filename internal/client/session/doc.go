// Package session holds the client's authentication state.
//
// A Store is the single source of truth for the current bearer token. It is
// constructed once at start-up and handed to every component that needs it
// (the gateway reads the token from it, the UI subscribes to it).
//
// # Two notification channels, one API
//
// Observers registered with Subscribe are called for every token change,
// whatever its origin:
//
//   - same-process writes (SetToken/ClearToken) notify synchronously, after
//     the write has completed, so an observer reading Token sees the new value;
//   - writes made by other processes sharing the same storage arrive through
//     a ChangeFeed (fsnotify on the SQLite file, or Redis pub/sub) and notify
//     asynchronously once the store has re-read the persisted value.
//
// The feed never echoes a store's own writes: a feed event only notifies when
// the persisted token differs from the last value the store wrote or saw.
// Notifications may coalesce; after writes settle every store converges on
// the persisted value.
//
// # Failures
//
// Token never fails: when the storage cannot be read it logs a warning and
// returns the last value the store knows. SetToken and ClearToken wrap
// storage failures in common.ErrStorageUnavailable; the in-memory value is
// still updated and observers are still notified, which is best-effort only.
package session
