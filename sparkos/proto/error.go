package proto

import "encoding/binary"

// ErrorPayload encodes a generic error report payload.
//
// Layout (little-endian):
//   - u16: code
//   - u16: ref kind (the message kind that failed)
//   - bytes: optional detail (service-defined, usually UTF-8 text)
func ErrorPayload(code ErrCode, ref Kind, detail []byte) []byte {
	if max := 128 - 4; len(detail) > max {
		detail = detail[:max]
	}
	buf := make([]byte, 4+len(detail))
	binary.LittleEndian.PutUint16(buf[0:2], uint16(code))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(ref))
	copy(buf[4:], detail)
	return buf
}

// DecodeErrorPayload decodes an ErrorPayload.
func DecodeErrorPayload(payload []byte) (code ErrCode, ref Kind, detail []byte, ok bool) {
	if len(payload) < 4 {
		return 0, 0, nil, false
	}
	code = ErrCode(binary.LittleEndian.Uint16(payload[0:2]))
	ref = Kind(binary.LittleEndian.Uint16(payload[2:4]))
	return code, ref, payload[4:], true
}
