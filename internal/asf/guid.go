package asf

import "github.com/google/uuid"

// ASF object and stream type GUIDs.
var (
	guidHeader              = uuid.MustParse("75B22630-668E-11CF-A6D9-00AA0062CE6C")
	guidFileProperties      = uuid.MustParse("8CABDCA1-A947-11CF-8EE4-00C00C205365")
	guidStreamProperties    = uuid.MustParse("B7DC0791-A9B7-11CF-8EE6-00C00C205365")
	guidContentDescription  = uuid.MustParse("75B22633-668E-11CF-A6D9-00AA0062CE6C")
	guidExtendedContent     = uuid.MustParse("D2D0A440-E307-11D2-97F0-00A0C95EA850")
	guidHeaderExtension     = uuid.MustParse("5FBF03B5-A92E-11CF-8EE3-00C00C205365")
	guidExtendedStreamProps = uuid.MustParse("14E6A5CB-C672-4332-8399-A96952065B5A")
	guidMetadata            = uuid.MustParse("C5F8CBEA-5BAF-4877-8467-AA8C44FA4CCA")
	guidAudioMedia          = uuid.MustParse("F8699E40-5B4D-11CF-A8FD-00805F5C442B")
	guidVideoMedia          = uuid.MustParse("BC19EFC0-5B4D-11CF-A8FD-00805F5C442B")
)

// readGUID decodes a GUID stored in ASF's mixed-endian layout: the first
// three fields little-endian, the last eight bytes as is.
func readGUID(b []byte) uuid.UUID {
	var u uuid.UUID
	u[0], u[1], u[2], u[3] = b[3], b[2], b[1], b[0]
	u[4], u[5] = b[5], b[4]
	u[6], u[7] = b[7], b[6]
	copy(u[8:], b[8:16])
	return u
}
