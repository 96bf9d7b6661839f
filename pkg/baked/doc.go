// Package baked holds the locale data compiled into the binary and the
// pipeline that turns YAML sources into table blobs.
//
// Sources live in data/*.yaml and are embedded with go:embed. On first use
// they pass through the same validate-then-build path that cmd/datagen runs
// offline: every entry is checked, serialized and written into a versioned
// zerotable blob, and the blob is loaded back through zerotable.Load. Lookups
// afterwards only ever see validated, immutable bytes.
//
// # Usage
//
//	loader, err := baked.NewLoader()
//	if err != nil {
//		return err
//	}
//	resp, err := provider.Load(loader, provider.NewRequest(baked.GreetingKey, id), baked.DecodeGreeting)
//
// Payloads decoded from baked tables are borrowed views into bytes that live
// for the whole process.
package baked
