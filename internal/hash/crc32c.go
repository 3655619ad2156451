// Package hash provides the checksum used for blob integrity.
package hash

import "hash/crc32"

// Castagnoli checksums are hardware accelerated on x86 and ARM, which
// matters when every uploaded blob is checksummed.
var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C returns the CRC32-Castagnoli checksum of blob.
func CRC32C(blob []byte) uint32 {
	return crc32.Checksum(blob, crc32cTable)
}
