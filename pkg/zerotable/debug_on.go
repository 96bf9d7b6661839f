//go:build zerotable_debug

package zerotable

// debugChecks enables the key order scan in Load.
const debugChecks = true
