package wallet

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// NormalizeTxBytes converts any of the wire encodings a tool result may use
// for transaction bytes into raw bytes. Three encodings occur in practice:
//
//   - a base64 string ("AAACAQ==")
//   - a JSON array of byte values ([0, 0, 2, 1])
//   - a byte-indexed object ({"0": 0, "1": 0, "2": 2, "3": 1}), which is
//     what a typed array becomes after a lossy JSON round trip
//   - a string containing the JSON of either of the above
//
// All encodings of the same transaction must normalize to identical bytes.
func NormalizeTxBytes(raw json.RawMessage) ([]byte, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty transaction payload")
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if decoded, err := base64.StdEncoding.DecodeString(s); err == nil {
			if len(decoded) == 0 {
				return nil, fmt.Errorf("empty transaction payload")
			}
			return decoded, nil
		}
		// Double-serialized payloads arrive as a string of JSON.
		trimmed := strings.TrimSpace(s)
		if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
			return NormalizeTxBytes(json.RawMessage(trimmed))
		}
		return nil, fmt.Errorf("decode base64 transaction: %q", s)
	}

	var arr []int
	if err := json.Unmarshal(raw, &arr); err == nil {
		return bytesFromInts(arr)
	}

	var obj map[string]int
	if err := json.Unmarshal(raw, &obj); err == nil {
		return bytesFromIndexed(obj)
	}

	return nil, fmt.Errorf("unrecognized transaction byte encoding")
}

func bytesFromInts(values []int) ([]byte, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("empty transaction payload")
	}
	out := make([]byte, len(values))
	for i, v := range values {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("byte value %d out of range at index %d", v, i)
		}
		out[i] = byte(v)
	}
	return out, nil
}

// bytesFromIndexed rebuilds bytes from a {"0": b0, "1": b1, ...} object.
// Keys must form a dense run from zero; anything else means the payload is
// not a serialized byte array.
func bytesFromIndexed(obj map[string]int) ([]byte, error) {
	if len(obj) == 0 {
		return nil, fmt.Errorf("empty transaction payload")
	}
	out := make([]byte, len(obj))
	for key, v := range obj {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= len(out) {
			return nil, fmt.Errorf("non-contiguous byte index %q", key)
		}
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("byte value %d out of range at index %d", v, idx)
		}
		out[idx] = byte(v)
	}
	return out, nil
}
