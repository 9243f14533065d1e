package ptp

// Standard PTP operation codes (ISO 15740 §5.3.1) bound by the command
// façade, plus the MTP object-property and device-property opcodes the
// standard table omits (spec §4.5, expansion).
const (
	OpGetDeviceInfo   uint16 = 0x1001
	OpOpenSession     uint16 = 0x1002
	OpCloseSession    uint16 = 0x1003
	OpGetStorageIDs   uint16 = 0x1004
	OpGetStorageInfo  uint16 = 0x1005
	OpGetNumObjects   uint16 = 0x1006
	OpGetObjectHandles uint16 = 0x1007
	OpGetObjectInfo   uint16 = 0x1008
	OpGetObject       uint16 = 0x1009
	OpDeleteObject    uint16 = 0x100B
	OpInitiateCapture uint16 = 0x100E
	OpGetDevicePropDesc  uint16 = 0x1014
	OpGetDevicePropValue uint16 = 0x1015
	OpSetDevicePropValue uint16 = 0x1016
	OpGetPartialObject   uint16 = 0x101B
	OpPowerDown          uint16 = 0x1013

	OpGetObjectPropsSupported uint16 = 0x9801
	OpGetObjectPropDesc       uint16 = 0x9802
	OpGetObjectPropValue      uint16 = 0x9803
)

// ParentAll and ParentRoot are the reserved parent_handle values understood
// by GetObjectHandles and GetNumObjects: "all objects regardless of parent"
// and "root of store" respectively. A zero format_filter means any format.
const (
	ParentAll  uint32 = 0x00000000
	ParentRoot uint32 = 0xFFFFFFFF
)
