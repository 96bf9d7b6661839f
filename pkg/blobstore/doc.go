// Package blobstore loads serialized lookup tables at runtime.
//
// A Source fetches table blobs by name from a directory, S3, Redis, Postgres
// or a local Pebble database. The Store validates each blob with
// zerotable.Load and keeps it in memory. Readers take a Lease before
// borrowing from a table; Reload swaps in a new generation while leased
// generations stay valid, and Unload refuses with ErrInUse until every lease
// on the table is released.
//
//	store, _ := blobstore.New(blobstore.NewFSSource(os.DirFS("tables")))
//	_ = store.Load(ctx, "messages/greeting@1.ztbl")
//	loader, _ := provider.NewLoader(store.WithTable(key, "messages/greeting@1.ztbl"))
//
// Each entry served through TableSource carries its lease, and the loader
// releases it together with the response.
package blobstore
