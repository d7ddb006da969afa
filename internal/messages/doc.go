// Package messages implements a channel's append-only message log on Pebble.
//
// # Overview
//
// Each channel owns a contiguous keyspace, ordered so a single iterator can
// walk ids in either direction:
//   - ch/{channel}/m            (channel metadata: lastID)
//   - ch/{channel}/e/{id_be8}   (messages)
//
// Values are framed as: uvarint headerLen | header | payload | crc32c(header|payload).
// The header carries the author; the payload is the JSON body and avatar.
//
// API surface (internal)
//
//	l, _ := OpenLog(db, "general")
//	ids, _ := l.Append(ctx, []source.Draft{{Author: "Ada", Body: "hi"}})
//
//	// Walk backwards from the newest message, one record per step.
//	c, _ := l.OpenCursor(ctx, source.Range{}, source.Prev)
//	defer c.Close()
//	for {
//		rec, ok, err := c.Next(ctx)
//		if err != nil || !ok {
//			break
//		}
//		_ = rec
//	}
//
// A frame that fails its checksum ends the cursor with a *source.StoreReadError.
package messages
