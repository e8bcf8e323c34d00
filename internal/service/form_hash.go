package service

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"artistforms/internal/domains"
)

// internalKeys are storage identifiers that never count as content.
var internalKeys = map[string]struct{}{
	"_id": {},
}

// HashSections returns the hex SHA-256 of the canonical form of sections.
func HashSections(sections []domains.Section) (string, error) {
	if sections == nil {
		sections = []domains.Section{}
	}
	raw, err := json.Marshal(sections)
	if err != nil {
		return "", fmt.Errorf("marshal sections: %w", err)
	}
	return HashSectionsJSON(raw)
}

// HashSectionsJSON hashes a raw JSON section list. Object key order and
// internal ids do not affect the digest.
func HashSectionsJSON(raw []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return "", fmt.Errorf("decode sections: %w", err)
	}

	var buf bytes.Buffer
	if err := writeCanonical(&buf, value); err != nil {
		return "", err
	}
	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:]), nil
}

func sectionsChanged(previous, next []domains.Section) (bool, error) {
	before, err := HashSections(previous)
	if err != nil {
		return false, err
	}
	after, err := HashSections(next)
	if err != nil {
		return false, err
	}
	return before != after, nil
}

func writeCanonical(buf *bytes.Buffer, value any) error {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			if _, internal := internalKeys[k]; internal {
				continue
			}
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			encodedKey, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(encodedKey)
			buf.WriteByte(':')
			if err := writeCanonical(buf, v[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode canonical value: %w", err)
		}
		buf.Write(encoded)
	}
	return nil
}
