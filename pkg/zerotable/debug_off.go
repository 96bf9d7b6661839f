//go:build !zerotable_debug

package zerotable

const debugChecks = false
