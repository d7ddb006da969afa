// Package runtime opens the configured storage backend for a data dir and
// hands out channel-scoped message stores.
//
// Example:
//
//	cfg := config.Default()
//	rt, err := runtime.Open(runtime.Options{DataDir: "./data", Fsync: pebblestore.FsyncModeAlways, Config: cfg})
//	if err != nil { /* *source.StoreOpenError: fatal */ }
//	defer rt.Close()
//	_ = rt.CheckHealth(context.Background())
//	store, _ := rt.OpenChannel(ctx, "general")
//	_, _ = store.Append(ctx, []source.Draft{{Author: "Ada", Body: "hello"}})
package runtime
