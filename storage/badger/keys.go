package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/answerit/core"
)

// Key prefixes for different data types
const (
	knowledgeRecordPrefix  = "knorec"
	knowledgeKeywordPrefix = "knokw"
	knowledgeCatPrefix     = "knocat"
	queryEventPrefix       = "qevent"
)

// makeKnowledgeKey generates a key for a knowledge record by ID.
func makeKnowledgeKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", knowledgeRecordPrefix, id))
}

// makeKeywordKey generates a composite key for the keyword index.
// Format: prefix:token:id
func makeKeywordKey(token string, id core.ID) []byte {
	prefix := knowledgeKeywordPrefix + ":" + token + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialKeywordKey generates a partial key for keyword queries.
// Format: prefix:token:
func makePartialKeywordKey(token string) []byte {
	return []byte(knowledgeKeywordPrefix + ":" + token + ":")
}

// makeCategoryKey generates a composite key for the category index.
// Format: prefix:category:id
func makeCategoryKey(category string, id core.ID) []byte {
	prefix := knowledgeCatPrefix + ":" + category + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialCategoryKey generates a partial key for category queries.
// Format: prefix:category:
func makePartialCategoryKey(category string) []byte {
	return []byte(knowledgeCatPrefix + ":" + category + ":")
}

// makeEventKey generates a composite key for a query event.
// Format: prefix:timestamp:id, timestamps BigEndian so key order is time order.
func makeEventKey(timestamp time.Time, id core.ID) []byte {
	prefix := queryEventPrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+16)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// idFromIndexKey extracts the record ID from the trailing 8 bytes of an
// index key.
func idFromIndexKey(key []byte) (core.ID, bool) {
	if len(key) < 8 {
		return 0, false
	}
	return core.ID(binary.BigEndian.Uint64(key[len(key)-8:])), true
}
