package ptp

// DeviceInfo is the responder's capability snapshot returned by
// GetDeviceInfo. Field order matches spec §4.3.
type DeviceInfo struct {
	Version             uint16
	VendorExtensionID   uint32
	VendorExtensionVer  uint16
	VendorExtensionDesc string
	FunctionalMode      uint16
	OperationsSupported []uint16
	EventsSupported     []uint16
	DevicePropsSupported []uint16
	CaptureFormats      []uint16
	ImageFormats        []uint16
	Manufacturer        string
	Model               string
	DeviceVersion       string
	SerialNumber        string
}

// DecodeDeviceInfo decodes a DeviceInfo from buf, which must contain exactly
// the encoded value (no trailing bytes).
func DecodeDeviceInfo(buf []byte) (DeviceInfo, error) {
	r := NewReader(buf)
	var d DeviceInfo
	var err error
	if d.Version, err = r.ReadU16(); err != nil {
		return d, err
	}
	if d.VendorExtensionID, err = r.ReadU32(); err != nil {
		return d, err
	}
	if d.VendorExtensionVer, err = r.ReadU16(); err != nil {
		return d, err
	}
	if d.VendorExtensionDesc, err = r.ReadString(); err != nil {
		return d, err
	}
	if d.FunctionalMode, err = r.ReadU16(); err != nil {
		return d, err
	}
	if d.OperationsSupported, err = r.ReadU16Vec(); err != nil {
		return d, err
	}
	if d.EventsSupported, err = r.ReadU16Vec(); err != nil {
		return d, err
	}
	if d.DevicePropsSupported, err = r.ReadU16Vec(); err != nil {
		return d, err
	}
	if d.CaptureFormats, err = r.ReadU16Vec(); err != nil {
		return d, err
	}
	if d.ImageFormats, err = r.ReadU16Vec(); err != nil {
		return d, err
	}
	if d.Manufacturer, err = r.ReadString(); err != nil {
		return d, err
	}
	if d.Model, err = r.ReadString(); err != nil {
		return d, err
	}
	if d.DeviceVersion, err = r.ReadString(); err != nil {
		return d, err
	}
	if d.SerialNumber, err = r.ReadString(); err != nil {
		return d, err
	}
	return d, r.ExpectEnd()
}

// Encode serializes d back to its wire representation.
func (d DeviceInfo) Encode() []byte {
	w := NewWriter(64)
	w.WriteU16(d.Version)
	w.WriteU32(d.VendorExtensionID)
	w.WriteU16(d.VendorExtensionVer)
	w.WriteString(d.VendorExtensionDesc)
	w.WriteU16(d.FunctionalMode)
	w.WriteU16Vec(d.OperationsSupported)
	w.WriteU16Vec(d.EventsSupported)
	w.WriteU16Vec(d.DevicePropsSupported)
	w.WriteU16Vec(d.CaptureFormats)
	w.WriteU16Vec(d.ImageFormats)
	w.WriteString(d.Manufacturer)
	w.WriteString(d.Model)
	w.WriteString(d.DeviceVersion)
	w.WriteString(d.SerialNumber)
	return w.Bytes()
}

// ObjectInfo is the metadata record returned by GetObjectInfo. Field order
// matches spec §4.3.
type ObjectInfo struct {
	StorageID          uint32
	ObjectFormat       uint16
	ProtectionStatus   uint16
	CompressedSize     uint32
	ThumbFormat        uint16
	ThumbCompressedSize uint32
	ThumbWidth         uint32
	ThumbHeight        uint32
	ImageWidth         uint32
	ImageHeight        uint32
	ImageBitDepth      uint32
	ParentObject       uint32
	AssociationType    uint16
	AssociationDesc    uint32
	SequenceNumber     uint32
	Filename           string
	CaptureDate        string
	ModificationDate   string
	Keywords           string
}

// DecodeObjectInfo decodes an ObjectInfo from buf, which must contain
// exactly the encoded value.
func DecodeObjectInfo(buf []byte) (ObjectInfo, error) {
	r := NewReader(buf)
	var o ObjectInfo
	var err error
	if o.StorageID, err = r.ReadU32(); err != nil {
		return o, err
	}
	if o.ObjectFormat, err = r.ReadU16(); err != nil {
		return o, err
	}
	if o.ProtectionStatus, err = r.ReadU16(); err != nil {
		return o, err
	}
	if o.CompressedSize, err = r.ReadU32(); err != nil {
		return o, err
	}
	if o.ThumbFormat, err = r.ReadU16(); err != nil {
		return o, err
	}
	if o.ThumbCompressedSize, err = r.ReadU32(); err != nil {
		return o, err
	}
	if o.ThumbWidth, err = r.ReadU32(); err != nil {
		return o, err
	}
	if o.ThumbHeight, err = r.ReadU32(); err != nil {
		return o, err
	}
	if o.ImageWidth, err = r.ReadU32(); err != nil {
		return o, err
	}
	if o.ImageHeight, err = r.ReadU32(); err != nil {
		return o, err
	}
	if o.ImageBitDepth, err = r.ReadU32(); err != nil {
		return o, err
	}
	if o.ParentObject, err = r.ReadU32(); err != nil {
		return o, err
	}
	if o.AssociationType, err = r.ReadU16(); err != nil {
		return o, err
	}
	if o.AssociationDesc, err = r.ReadU32(); err != nil {
		return o, err
	}
	if o.SequenceNumber, err = r.ReadU32(); err != nil {
		return o, err
	}
	if o.Filename, err = r.ReadString(); err != nil {
		return o, err
	}
	if o.CaptureDate, err = r.ReadString(); err != nil {
		return o, err
	}
	if o.ModificationDate, err = r.ReadString(); err != nil {
		return o, err
	}
	if o.Keywords, err = r.ReadString(); err != nil {
		return o, err
	}
	return o, r.ExpectEnd()
}

// Encode serializes o back to its wire representation.
func (o ObjectInfo) Encode() []byte {
	w := NewWriter(64)
	w.WriteU32(o.StorageID)
	w.WriteU16(o.ObjectFormat)
	w.WriteU16(o.ProtectionStatus)
	w.WriteU32(o.CompressedSize)
	w.WriteU16(o.ThumbFormat)
	w.WriteU32(o.ThumbCompressedSize)
	w.WriteU32(o.ThumbWidth)
	w.WriteU32(o.ThumbHeight)
	w.WriteU32(o.ImageWidth)
	w.WriteU32(o.ImageHeight)
	w.WriteU32(o.ImageBitDepth)
	w.WriteU32(o.ParentObject)
	w.WriteU16(o.AssociationType)
	w.WriteU32(o.AssociationDesc)
	w.WriteU32(o.SequenceNumber)
	w.WriteString(o.Filename)
	w.WriteString(o.CaptureDate)
	w.WriteString(o.ModificationDate)
	w.WriteString(o.Keywords)
	return w.Bytes()
}

// StorageInfo describes one logical storage volume, returned by
// GetStorageInfo. Field order matches spec §4.3.
type StorageInfo struct {
	StorageType        uint16
	FilesystemType      uint16
	AccessCapability    uint16
	MaxCapacity         uint64
	FreeSpaceInBytes    uint64
	FreeSpaceInImages   uint32
	StorageDescription  string
	VolumeLabel         string
}

// DecodeStorageInfo decodes a StorageInfo from buf, which must contain
// exactly the encoded value.
func DecodeStorageInfo(buf []byte) (StorageInfo, error) {
	r := NewReader(buf)
	var s StorageInfo
	var err error
	if s.StorageType, err = r.ReadU16(); err != nil {
		return s, err
	}
	if s.FilesystemType, err = r.ReadU16(); err != nil {
		return s, err
	}
	if s.AccessCapability, err = r.ReadU16(); err != nil {
		return s, err
	}
	if s.MaxCapacity, err = r.ReadU64(); err != nil {
		return s, err
	}
	if s.FreeSpaceInBytes, err = r.ReadU64(); err != nil {
		return s, err
	}
	if s.FreeSpaceInImages, err = r.ReadU32(); err != nil {
		return s, err
	}
	if s.StorageDescription, err = r.ReadString(); err != nil {
		return s, err
	}
	if s.VolumeLabel, err = r.ReadString(); err != nil {
		return s, err
	}
	return s, r.ExpectEnd()
}

// Encode serializes s back to its wire representation.
func (s StorageInfo) Encode() []byte {
	w := NewWriter(32)
	w.WriteU16(s.StorageType)
	w.WriteU16(s.FilesystemType)
	w.WriteU16(s.AccessCapability)
	w.WriteU64(s.MaxCapacity)
	w.WriteU64(s.FreeSpaceInBytes)
	w.WriteU32(s.FreeSpaceInImages)
	w.WriteString(s.StorageDescription)
	w.WriteString(s.VolumeLabel)
	return w.Bytes()
}

// Form flag values for a property descriptor's constraint shape.
const (
	FormNone        uint8 = 0x00
	FormRange       uint8 = 0x01
	FormEnumeration uint8 = 0x02
)

// PropForm is the constraint shape of a property value: none, a numeric
// range with step, or an enumerated value set. Exactly one of Range/Values
// is meaningful, selected by Kind.
type PropForm struct {
	Kind uint8

	RangeMin  DataType
	RangeMax  DataType
	RangeStep DataType

	Values []DataType
}

func decodePropForm(r *Reader, datatype uint16) (PropForm, error) {
	kind, err := r.ReadU8()
	if err != nil {
		return PropForm{}, err
	}
	switch kind {
	case FormRange:
		min, err := DecodeDataType(datatype, r)
		if err != nil {
			return PropForm{}, err
		}
		max, err := DecodeDataType(datatype, r)
		if err != nil {
			return PropForm{}, err
		}
		step, err := DecodeDataType(datatype, r)
		if err != nil {
			return PropForm{}, err
		}
		return PropForm{Kind: FormRange, RangeMin: min, RangeMax: max, RangeStep: step}, nil
	case FormEnumeration:
		n, err := r.ReadU16()
		if err != nil {
			return PropForm{}, err
		}
		values := make([]DataType, 0, n)
		for i := uint16(0); i < n; i++ {
			v, err := DecodeDataType(datatype, r)
			if err != nil {
				return PropForm{}, err
			}
			values = append(values, v)
		}
		return PropForm{Kind: FormEnumeration, Values: values}, nil
	default:
		// unrecognized form flags yield None per spec §4.3.
		return PropForm{Kind: FormNone}, nil
	}
}

func (f PropForm) encode(w *Writer) {
	w.WriteU8(f.Kind)
	switch f.Kind {
	case FormRange:
		w.buf = append(w.buf, f.RangeMin.Encode()...)
		w.buf = append(w.buf, f.RangeMax.Encode()...)
		w.buf = append(w.buf, f.RangeStep.Encode()...)
	case FormEnumeration:
		w.WriteU16(uint16(len(f.Values)))
		for _, v := range f.Values {
			w.buf = append(w.buf, v.Encode()...)
		}
	}
}

// PropDesc is a device property descriptor, returned by GetDevicePropDesc.
// IsEnable carries the MTP DevicePropDesc.FormFlag IsEnable byte verbatim;
// pure-PTP responders leave it zero and it is never interpreted as a gate
// here.
type PropDesc struct {
	Code           uint16
	DataTypeCode   uint16
	GetSet         uint8
	IsEnable       uint8
	FactoryDefault DataType
	Current        DataType
	Form           PropForm
}

// DecodePropDesc decodes a PropDesc from buf, which must contain exactly
// the encoded value.
func DecodePropDesc(buf []byte) (PropDesc, error) {
	r := NewReader(buf)
	var p PropDesc
	var err error
	if p.Code, err = r.ReadU16(); err != nil {
		return p, err
	}
	if p.DataTypeCode, err = r.ReadU16(); err != nil {
		return p, err
	}
	if p.GetSet, err = r.ReadU8(); err != nil {
		return p, err
	}
	if p.IsEnable, err = r.ReadU8(); err != nil {
		return p, err
	}
	if p.FactoryDefault, err = DecodeDataType(p.DataTypeCode, r); err != nil {
		return p, err
	}
	if p.Current, err = DecodeDataType(p.DataTypeCode, r); err != nil {
		return p, err
	}
	if p.Form, err = decodePropForm(r, p.DataTypeCode); err != nil {
		return p, err
	}
	return p, r.ExpectEnd()
}

// Encode serializes p back to its wire representation.
func (p PropDesc) Encode() []byte {
	w := NewWriter(32)
	w.WriteU16(p.Code)
	w.WriteU16(p.DataTypeCode)
	w.WriteU8(p.GetSet)
	w.WriteU8(p.IsEnable)
	w.buf = append(w.buf, p.FactoryDefault.Encode()...)
	w.buf = append(w.buf, p.Current.Encode()...)
	p.Form.encode(w)
	return w.Bytes()
}

// ObjectPropDesc is an MTP object property descriptor, returned by
// GetObjectPropDesc. Unlike PropDesc it carries no IsEnable byte and no
// Current value (object property values are fetched separately via
// GetObjectPropValue) but adds a GroupCode.
type ObjectPropDesc struct {
	Code         uint16
	DataTypeCode uint16
	GetSet       uint8
	Default      DataType
	GroupCode    uint32
	Form         PropForm
}

// DecodeObjectPropDesc decodes an ObjectPropDesc from buf, which must
// contain exactly the encoded value.
func DecodeObjectPropDesc(buf []byte) (ObjectPropDesc, error) {
	r := NewReader(buf)
	var p ObjectPropDesc
	var err error
	if p.Code, err = r.ReadU16(); err != nil {
		return p, err
	}
	if p.DataTypeCode, err = r.ReadU16(); err != nil {
		return p, err
	}
	if p.GetSet, err = r.ReadU8(); err != nil {
		return p, err
	}
	if p.Default, err = DecodeDataType(p.DataTypeCode, r); err != nil {
		return p, err
	}
	if p.GroupCode, err = r.ReadU32(); err != nil {
		return p, err
	}
	if p.Form, err = decodePropForm(r, p.DataTypeCode); err != nil {
		return p, err
	}
	return p, r.ExpectEnd()
}

// Encode serializes p back to its wire representation.
func (p ObjectPropDesc) Encode() []byte {
	w := NewWriter(32)
	w.WriteU16(p.Code)
	w.WriteU16(p.DataTypeCode)
	w.WriteU8(p.GetSet)
	w.buf = append(w.buf, p.Default.Encode()...)
	w.WriteU32(p.GroupCode)
	p.Form.encode(w)
	return w.Bytes()
}

// ObjectProperty is the value of one object property on one object,
// together with its handle, property code and datatype code, as decoded by
// DecodeObjectProperty. GetObjectPropValue does not return this record; it
// returns the bare DataType value.
type ObjectProperty struct {
	Handle       uint32
	Code         uint16
	DataTypeCode uint16
	Value        DataType
}

// DecodeObjectProperty decodes an ObjectProperty from buf, which must
// contain exactly the encoded value.
func DecodeObjectProperty(buf []byte) (ObjectProperty, error) {
	r := NewReader(buf)
	var p ObjectProperty
	var err error
	if p.Handle, err = r.ReadU32(); err != nil {
		return p, err
	}
	if p.Code, err = r.ReadU16(); err != nil {
		return p, err
	}
	if p.DataTypeCode, err = r.ReadU16(); err != nil {
		return p, err
	}
	if p.Value, err = DecodeDataType(p.DataTypeCode, r); err != nil {
		return p, err
	}
	return p, r.ExpectEnd()
}

// Encode serializes p back to its wire representation.
func (p ObjectProperty) Encode() []byte {
	w := NewWriter(16)
	w.WriteU32(p.Handle)
	w.WriteU16(p.Code)
	w.WriteU16(p.DataTypeCode)
	w.buf = append(w.buf, p.Value.Encode()...)
	return w.Bytes()
}
