package pak

// Header layout.
const (
	// Signature identifies a pak stream.
	Signature = "BPFS"

	// Version is the only format version understood by the game client.
	Version uint32 = 0x00000201

	// HeaderSize is the size of the fixed header; the first record starts here.
	HeaderSize = 0x8C

	// headerMaskOffset is the position of the two obfuscated header words.
	headerMaskOffset = 0x08

	// headerReservedSize is the opaque block closing the header.
	headerReservedSize = 0x7C
)

// Record layout.
const (
	// recordFixedSize covers reserved1, reserved2, dataOffset, sizeCompressed,
	// sizeUncompressed and nameLength.
	recordFixedSize = 6 * 4

	// TrailerLength is the value of the "dummy count" word that precedes the
	// record trailer, and the size of the trailer itself.
	TrailerLength = 20

	// trailerReservedSize is the opaque part of the trailer before
	// prevEntryOffset.
	trailerReservedSize = TrailerLength - 4

	// recordOverhead is every record byte except the name.
	recordOverhead = recordFixedSize + 4 + TrailerLength
)

// Observed record constants.
const (
	Reserved1Value int32 = 0
	Reserved2Value int32 = 1
)

// SplitFlag marks a part's position in a split archive set.
type SplitFlag uint32

const (
	// SplitMore marks a part followed by further parts.
	SplitMore SplitFlag = 2

	// SplitLast marks the terminal part of a set.
	SplitLast SplitFlag = 4
)

// String returns a human-readable description of the flag.
func (f SplitFlag) String() string {
	switch f {
	case SplitMore:
		return "more"
	case SplitLast:
		return "last"
	default:
		return "unknown"
	}
}

// dataOffsetFor returns the payload position of a record that starts at
// recordOffset and carries a name of nameBytes encoded bytes.
func dataOffsetFor(recordOffset int64, nameBytes int) int64 {
	return recordOffset + recordOverhead + int64(nameBytes)
}
