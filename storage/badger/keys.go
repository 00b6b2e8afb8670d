package badger

import (
	"encoding/binary"

	"github.com/finsight/advisor/core"
)

// Key prefixes for different data types
const (
	chunkRecordPrefix = "polchk"
	chunkTopicPrefix  = "polcht"
)

// makeChunkKey generates a key for a policy chunk by ID.
// Format: prefix:id
func makeChunkKey(id core.ID) []byte {
	prefix := chunkRecordPrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeChunkTopicKey generates a composite key for the topic index.
// Format: prefix:topic:id
func makeChunkTopicKey(topic string, id core.ID) []byte {
	prefix := chunkTopicPrefix + ":" + topic + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialChunkTopicKey generates a partial key for topic scans.
// Format: prefix:topic:
func makePartialChunkTopicKey(topic string) []byte {
	return []byte(chunkTopicPrefix + ":" + topic + ":")
}

// topicFromIndexKey extracts the topic from a topic index key.
func topicFromIndexKey(key []byte) string {
	prefixLen := len(chunkTopicPrefix) + 1
	if len(key) < prefixLen+8+1 {
		return ""
	}
	return string(key[prefixLen : len(key)-9])
}
