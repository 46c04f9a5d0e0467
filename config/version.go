package config

import "fmt"

// FormatVersion is the container layout revision.
type FormatVersion uint16

const (
	FormatUnknown FormatVersion = iota
	// ps2 release: 0x5C instance records, half precision uvs, no normals
	FormatV1
	// remaster: 0x50 instance records, float uvs and normals
	FormatV2

	FormatCurrent = FormatV2
)

func (v FormatVersion) String() string {
	switch v {
	case FormatV1:
		return "v1"
	case FormatV2:
		return "v2"
	default:
		return fmt.Sprintf("unknown(%d)", uint16(v))
	}
}

func (v FormatVersion) Supported() bool {
	return v == FormatV1 || v == FormatV2
}
