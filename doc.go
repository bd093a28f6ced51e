// Package pak reads and writes BPFS pak archives, the data files of a game
// client.
//
// A pak is one sequential stream: a fixed 0x8C-byte header followed by file
// records laid back to back, each immediately followed by its zlib-compressed
// payload. Every byte of the stream, header included, is XORed with 0x59.
//
// # Layout
//
// All integers are little-endian 32-bit values.
//
//	0x00  "BPFS"
//	0x04  0x00000201                 version
//	0x08  lastEntry ^ H("firstheader") start of the last record written
//	0x0C  split ^ H("split")         2 = more parts follow, 4 = last part
//	0x10  124 reserved bytes
//	0x8C  records:
//	      reserved1 (0), reserved2 (1), dataOffset, sizeCompressed,
//	      sizeUncompressed, nameLength (UTF-16 code units),
//	      name (UTF-16LE), 20, 16 reserved bytes, prevEntryOffset,
//	      payload (sizeCompressed bytes)
//
// H is a small keyed hash that only hides the two header words from casual
// inspection.
//
// # Traversal
//
// Records form a backward chain through prevEntryOffset, starting at the
// header's last-entry offset. Listing and extraction walk forward in physical
// order instead, which is what the existing tooling relies on. [Reader.Chain]
// exposes the backward walk.
//
// # Quick Start
//
// Pack a directory:
//
//	f, err := os.Create("data.pak")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//	_, _, err = pak.Create(ctx, "./data", f, true)
//
// List and read entries:
//
//	a, err := pak.Open("data.pak")
//	if err != nil {
//	    return err
//	}
//	defer a.Close()
//	entries, err := a.Entries()
//	content, err := a.ReadFile(entries[0])
package pak
