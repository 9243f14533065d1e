package ptp

import "fmt"

// ContainerKind is the `kind` field of a PTP USB container header.
type ContainerKind uint16

const (
	ContainerCommand  ContainerKind = 1
	ContainerData     ContainerKind = 2
	ContainerResponse ContainerKind = 3
	ContainerEvent    ContainerKind = 4
)

func (k ContainerKind) String() string {
	switch k {
	case ContainerCommand:
		return "Command"
	case ContainerData:
		return "Data"
	case ContainerResponse:
		return "Response"
	case ContainerEvent:
		return "Event"
	default:
		return fmt.Sprintf("kind(0x%04x)", uint16(k))
	}
}

// headerSize is the fixed 12-byte PTP USB container header.
const headerSize = 12

// ContainerHeader is the 12-byte header prefixing every PTP USB container:
// total length, kind, opcode/response code, and transaction id.
type ContainerHeader struct {
	Length uint32
	Kind   ContainerKind
	Code   uint16
	TID    uint32
}

// ParseContainerHeader decodes the 12-byte header from the front of buf.
// buf must be at least headerSize bytes; the payload (if any) follows at
// buf[headerSize:]. Length < 12 or an unrecognized kind is MalformedError.
func ParseContainerHeader(buf []byte) (ContainerHeader, error) {
	if len(buf) < headerSize {
		return ContainerHeader{}, ErrUnexpectedEnd
	}
	r := NewReader(buf[:headerSize])
	length, err := r.ReadU32()
	if err != nil {
		return ContainerHeader{}, err
	}
	if length < headerSize {
		return ContainerHeader{}, malformed("container length %d is smaller than the header", length)
	}
	kind, err := r.ReadU16()
	if err != nil {
		return ContainerHeader{}, err
	}
	switch ContainerKind(kind) {
	case ContainerCommand, ContainerData, ContainerResponse, ContainerEvent:
	default:
		return ContainerHeader{}, malformed("unrecognized container kind 0x%04x", kind)
	}
	code, err := r.ReadU16()
	if err != nil {
		return ContainerHeader{}, err
	}
	tid, err := r.ReadU32()
	if err != nil {
		return ContainerHeader{}, err
	}
	return ContainerHeader{Length: length, Kind: ContainerKind(kind), Code: code, TID: tid}, nil
}

// WriteContainer writes a full container (header + payload) for (kind, code,
// tid, payload). The returned length equals headerSize+len(payload).
func WriteContainer(kind ContainerKind, code uint16, tid uint32, payload []byte) []byte {
	w := NewWriter(headerSize + len(payload))
	w.WriteU32(uint32(headerSize + len(payload)))
	w.WriteU16(uint16(kind))
	w.WriteU16(code)
	w.WriteU32(tid)
	w.buf = append(w.buf, payload...)
	return w.Bytes()
}

// Standard PTP response codes (ISO 15740 §5.3.2), 0x2000-0x2020.
const (
	ResponseUndefined                       uint16 = 0x2000
	ResponseOK                              uint16 = 0x2001
	ResponseGeneralError                    uint16 = 0x2002
	ResponseSessionNotOpen                  uint16 = 0x2003
	ResponseInvalidTransactionID            uint16 = 0x2004
	ResponseOperationNotSupported           uint16 = 0x2005
	ResponseParameterNotSupported           uint16 = 0x2006
	ResponseIncompleteTransfer              uint16 = 0x2007
	ResponseInvalidStorageID                uint16 = 0x2008
	ResponseInvalidObjectHandle             uint16 = 0x2009
	ResponseDevicePropNotSupported          uint16 = 0x200A
	ResponseInvalidObjectFormatCode         uint16 = 0x200B
	ResponseStoreFull                       uint16 = 0x200C
	ResponseObjectWriteProtected            uint16 = 0x200D
	ResponseStoreReadOnly                   uint16 = 0x200E
	ResponseAccessDenied                    uint16 = 0x200F
	ResponseNoThumbnailPresent              uint16 = 0x2010
	ResponseSelfTestFailed                  uint16 = 0x2011
	ResponsePartialDeletion                 uint16 = 0x2012
	ResponseStoreNotAvailable               uint16 = 0x2013
	ResponseSpecificationByFormatUnsupported uint16 = 0x2014
	ResponseNoValidObjectInfo               uint16 = 0x2015
	ResponseInvalidCodeFormat               uint16 = 0x2016
	ResponseUnknownVendorCode               uint16 = 0x2017
	ResponseCaptureAlreadyTerminated        uint16 = 0x2018
	ResponseDeviceBusy                      uint16 = 0x2019
	ResponseInvalidParentObject             uint16 = 0x201A
	ResponseInvalidDevicePropFormat         uint16 = 0x201B
	ResponseInvalidDevicePropValue          uint16 = 0x201C
	ResponseInvalidParameter                uint16 = 0x201D
	ResponseSessionAlreadyOpen              uint16 = 0x201E
	ResponseTransactionCancelled            uint16 = 0x201F
	ResponseSpecificationOfDestinationUnsupported uint16 = 0x2020
)

var responseCodeNames = map[uint16]string{
	ResponseUndefined:                        "Undefined",
	ResponseOK:                               "OK",
	ResponseGeneralError:                     "GeneralError",
	ResponseSessionNotOpen:                   "SessionNotOpen",
	ResponseInvalidTransactionID:             "InvalidTransactionID",
	ResponseOperationNotSupported:            "OperationNotSupported",
	ResponseParameterNotSupported:            "ParameterNotSupported",
	ResponseIncompleteTransfer:               "IncompleteTransfer",
	ResponseInvalidStorageID:                 "InvalidStorageID",
	ResponseInvalidObjectHandle:              "InvalidObjectHandle",
	ResponseDevicePropNotSupported:           "DevicePropNotSupported",
	ResponseInvalidObjectFormatCode:          "InvalidObjectFormatCode",
	ResponseStoreFull:                        "StoreFull",
	ResponseObjectWriteProtected:             "ObjectWriteProtected",
	ResponseStoreReadOnly:                    "StoreReadOnly",
	ResponseAccessDenied:                     "AccessDenied",
	ResponseNoThumbnailPresent:               "NoThumbnailPresent",
	ResponseSelfTestFailed:                   "SelfTestFailed",
	ResponsePartialDeletion:                  "PartialDeletion",
	ResponseStoreNotAvailable:                "StoreNotAvailable",
	ResponseSpecificationByFormatUnsupported: "SpecificationByFormatUnsupported",
	ResponseNoValidObjectInfo:                "NoValidObjectInfo",
	ResponseInvalidCodeFormat:                "InvalidCodeFormat",
	ResponseUnknownVendorCode:                "UnknownVendorCode",
	ResponseCaptureAlreadyTerminated:         "CaptureAlreadyTerminated",
	ResponseDeviceBusy:                       "DeviceBusy",
	ResponseInvalidParentObject:              "InvalidParentObject",
	ResponseInvalidDevicePropFormat:          "InvalidDevicePropFormat",
	ResponseInvalidDevicePropValue:           "InvalidDevicePropValue",
	ResponseInvalidParameter:                 "InvalidParameter",
	ResponseSessionAlreadyOpen:               "SessionAlreadyOpen",
	ResponseTransactionCancelled:             "TransactionCancelled",
	ResponseSpecificationOfDestinationUnsupported: "SpecificationOfDestinationUnsupported",
}

// ResponseCodeName maps a standard response code to its name. Vendor codes
// outside the 0x2000-0x2020 standard range pass through unnamed.
func ResponseCodeName(code uint16) string {
	if name, ok := responseCodeNames[code]; ok {
		return name
	}
	return fmt.Sprintf("vendor(0x%04x)", code)
}
