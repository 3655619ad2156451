// Package fs abstracts the filesystem operations behind the local
// blob store's write path.
//
// Production code uses [Default], backed by the os package. Tests
// inject [FaultyFS] to simulate write, sync, and rename failures and
// verify that a failed blob write never becomes visible:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.FailWriteAfter(1024)
//
// Reads are not abstracted here; they go through memory mapping.
package fs
