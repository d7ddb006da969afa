// Package source defines the DataSource contract consumed by the viewport:
// an id-ordered record store that opens lazy, direction-aware cursors over
// exclusive id ranges.
//
// Ids are assigned by the store, start at 1 and strictly increase, so a
// zero bound in a Range means "unbounded" on that side.
//
//	cur, err := src.OpenCursor(ctx, source.Range{Before: 120}, source.Prev)
//	if err != nil { /* handle */ }
//	defer cur.Close()
//	for {
//	    rec, ok, err := cur.Next(ctx)
//	    if err != nil || !ok {
//	        break
//	    }
//	    _ = rec // ids 119, 118, ...
//	}
package source
