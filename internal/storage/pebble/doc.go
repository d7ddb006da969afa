// Package pebblestore wraps Pebble with an fsync policy, batches, bounded
// iterators and a small metrics hook. It is the default backend for message
// logs and channel metadata.
//
//	db, err := pebblestore.Open(pebblestore.Options{DataDir: "./data/store"})
//	if err != nil { /* *source.StoreOpenError */ }
//	defer db.Close()
//
//	b := db.NewBatch()
//	_ = b.Set([]byte("k"), []byte("v"), nil)
//	_ = db.CommitBatch(ctx, b)
//	b.Close()
//
//	it, _ := db.NewPrefixIter([]byte("ch/general/e/"))
//	defer it.Close()
package pebblestore
