package messages

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"hash/crc32"

	"github.com/rzbill/scrollback/internal/source"
)

// Record encoding: varint headerLen | header | payload | crc32c(header|payload)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

var errBadFrame = errors.New("bad frame")

// EncodeFrame frames header and payload with a length prefix and checksum.
func EncodeFrame(header, payload []byte) []byte {
	out := make([]byte, 0, binary.MaxVarintLen64+len(header)+len(payload)+4)
	out = binary.AppendUvarint(out, uint64(len(header)))
	out = append(out, header...)
	out = append(out, payload...)

	crc := crc32.Update(0, castagnoli, header)
	crc = crc32.Update(crc, castagnoli, payload)
	return binary.BigEndian.AppendUint32(out, crc)
}

// DecodeFrame verifies and splits a frame. The returned slices alias b.
func DecodeFrame(b []byte) (header, payload []byte, err error) {
	if len(b) < 1+4 {
		return nil, nil, errBadFrame
	}
	hlen, n := binary.Uvarint(b)
	if n <= 0 || uint64(len(b)) < uint64(n)+hlen+4 {
		return nil, nil, errBadFrame
	}
	header = b[n : n+int(hlen)]
	payload = b[n+int(hlen) : len(b)-4]
	crc := crc32.Update(0, castagnoli, header)
	crc = crc32.Update(crc, castagnoli, payload)
	if crc != binary.BigEndian.Uint32(b[len(b)-4:]) {
		return nil, nil, errors.New("checksum mismatch")
	}
	return header, payload, nil
}

type body struct {
	Body   string `json:"body"`
	Avatar string `json:"avatar,omitempty"`
}

func encodeDraft(d source.Draft) ([]byte, error) {
	payload, err := json.Marshal(body{Body: d.Body, Avatar: d.AvatarRef})
	if err != nil {
		return nil, err
	}
	return EncodeFrame([]byte(d.Author), payload), nil
}

func decodeRecord(id uint64, value []byte) (source.Record, error) {
	header, payload, err := DecodeFrame(value)
	if err != nil {
		return source.Record{}, err
	}
	var b body
	if err := json.Unmarshal(payload, &b); err != nil {
		return source.Record{}, err
	}
	return source.Record{ID: id, Author: string(header), Body: b.Body, AvatarRef: b.Avatar}, nil
}
