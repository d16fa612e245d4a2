package buffer

import (
	"encoding/binary"

	"github.com/bietkhonhungvandi212/array-db/internal/pageid"
	"github.com/spaolacci/murmur3"
)

// hashPageID feeds a page id's little-endian encoding through murmur3,
// grounded in ryogrid-SamehadaDB's container/hash/hash_util.go
// (GenHashMurMur), which hashes a value's byte encoding the same way for
// its own page-table hash index. murmur3 distributes across all bit
// positions, which the extendible hash table's low-bits directory
// indexing scheme requires.
func hashPageID(id pageid.PageID) uint64 {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(id))
	h := murmur3.New64()
	h.Write(buf) //nolint:errcheck // hash.Hash64.Write never returns an error
	return h.Sum64()
}
