package ptp

import "time"

// GetDeviceInfo returns the responder's capability snapshot (opcode 0x1001).
func (s *Session) GetDeviceInfo(timeout time.Duration) (DeviceInfo, error) {
	buf, err := s.Command(OpGetDeviceInfo, nil, nil, timeout)
	if err != nil {
		return DeviceInfo{}, err
	}
	return DecodeDeviceInfo(buf)
}

// OpenSession opens a session with the given caller-chosen non-zero session
// id (opcode 0x1002).
func (s *Session) OpenSession(sessionID uint32, timeout time.Duration) error {
	_, err := s.Command(OpOpenSession, []uint32{sessionID}, nil, timeout)
	return err
}

// CloseSession closes the current session (opcode 0x1003) without releasing
// the USB interface; see Close to tear down the interface too.
func (s *Session) CloseSession(timeout time.Duration) error {
	_, err := s.Command(OpCloseSession, nil, nil, timeout)
	return err
}

// GetStorageIDs returns the storage ids of every storage volume on the
// device (opcode 0x1004).
func (s *Session) GetStorageIDs(timeout time.Duration) ([]uint32, error) {
	buf, err := s.Command(OpGetStorageIDs, nil, nil, timeout)
	if err != nil {
		return nil, err
	}
	return NewReader(buf).ReadU32Vec()
}

// GetStorageInfo describes one storage volume (opcode 0x1005).
func (s *Session) GetStorageInfo(storageID uint32, timeout time.Duration) (StorageInfo, error) {
	buf, err := s.Command(OpGetStorageInfo, []uint32{storageID}, nil, timeout)
	if err != nil {
		return StorageInfo{}, err
	}
	return DecodeStorageInfo(buf)
}

// GetNumObjects counts objects matching the given filter (opcode 0x1006).
// formatFilter == 0 means any format; parentHandle follows the ParentAll/
// ParentRoot conventions.
func (s *Session) GetNumObjects(storageID, formatFilter, parentHandle uint32, timeout time.Duration) (uint32, error) {
	buf, err := s.Command(OpGetNumObjects, []uint32{storageID, formatFilter, parentHandle}, nil, timeout)
	if err != nil {
		return 0, err
	}
	return NewReader(buf).ReadU32()
}

// GetObjectHandles lists object handles matching the given filter (opcode
// 0x1007). formatFilter == 0 means any format; parentHandle follows the
// ParentAll/ParentRoot conventions.
func (s *Session) GetObjectHandles(storageID, formatFilter, parentHandle uint32, timeout time.Duration) ([]uint32, error) {
	buf, err := s.Command(OpGetObjectHandles, []uint32{storageID, formatFilter, parentHandle}, nil, timeout)
	if err != nil {
		return nil, err
	}
	return NewReader(buf).ReadU32Vec()
}

// GetObjectInfo fetches one object's metadata (opcode 0x1008).
func (s *Session) GetObjectInfo(handle uint32, timeout time.Duration) (ObjectInfo, error) {
	buf, err := s.Command(OpGetObjectInfo, []uint32{handle}, nil, timeout)
	if err != nil {
		return ObjectInfo{}, err
	}
	return DecodeObjectInfo(buf)
}

// GetObject fetches the full binary contents of one object (opcode 0x1009).
func (s *Session) GetObject(handle uint32, timeout time.Duration) ([]byte, error) {
	return s.Command(OpGetObject, []uint32{handle}, nil, timeout)
}

// GetPartialObject fetches up to maxBytes of one object starting at offset
// (opcode 0x101B).
func (s *Session) GetPartialObject(handle, offset, maxBytes uint32, timeout time.Duration) ([]byte, error) {
	return s.Command(OpGetPartialObject, []uint32{handle, offset, maxBytes}, nil, timeout)
}

// DeleteObject deletes one object (opcode 0x100B). Per spec §9, the core
// does not retry on AccessDenied; callers decide.
func (s *Session) DeleteObject(handle uint32, timeout time.Duration) error {
	_, err := s.Command(OpDeleteObject, []uint32{handle}, nil, timeout)
	return err
}

// PowerDown requests the device power itself down (opcode 0x1013).
func (s *Session) PowerDown(timeout time.Duration) error {
	_, err := s.Command(OpPowerDown, nil, nil, timeout)
	return err
}

// InitiateCapture triggers a still-image capture (opcode 0x100E). It is
// fire-and-forget: the responder confirms via the Response code and later
// via events on the (unconsumed) interrupt endpoint, not via a Data phase.
func (s *Session) InitiateCapture(storageID, formatCode uint32, timeout time.Duration) error {
	_, err := s.Command(OpInitiateCapture, []uint32{storageID, formatCode}, nil, timeout)
	return err
}

// GetObjectPropsSupported lists the object property codes supported for a
// given object format (opcode 0x9801, MTP).
func (s *Session) GetObjectPropsSupported(objectFormatCode uint32, timeout time.Duration) ([]uint16, error) {
	buf, err := s.Command(OpGetObjectPropsSupported, []uint32{objectFormatCode}, nil, timeout)
	if err != nil {
		return nil, err
	}
	return NewReader(buf).ReadU16Vec()
}

// GetObjectPropDesc describes one object property for a given object format
// (opcode 0x9802, MTP).
func (s *Session) GetObjectPropDesc(propCode, objectFormatCode uint32, timeout time.Duration) (ObjectPropDesc, error) {
	buf, err := s.Command(OpGetObjectPropDesc, []uint32{propCode, objectFormatCode}, nil, timeout)
	if err != nil {
		return ObjectPropDesc{}, err
	}
	return DecodeObjectPropDesc(buf)
}

// GetObjectPropValue fetches one object property's current value (opcode
// 0x9803, MTP). The caller must already know the property's DataType code,
// typically from a prior GetObjectPropDesc.
func (s *Session) GetObjectPropValue(handle, propCode uint32, datatypeCode uint16, timeout time.Duration) (DataType, error) {
	buf, err := s.Command(OpGetObjectPropValue, []uint32{handle, propCode}, nil, timeout)
	if err != nil {
		return DataType{}, err
	}
	return DecodeDataType(datatypeCode, NewReader(buf))
}

// GetDevicePropDesc describes one device property (opcode 0x1014).
func (s *Session) GetDevicePropDesc(propCode uint32, timeout time.Duration) (PropDesc, error) {
	buf, err := s.Command(OpGetDevicePropDesc, []uint32{propCode}, nil, timeout)
	if err != nil {
		return PropDesc{}, err
	}
	return DecodePropDesc(buf)
}

// GetDevicePropValue fetches one device property's current value (opcode
// 0x1015). The caller must already know the property's DataType code,
// typically from a prior GetDevicePropDesc.
func (s *Session) GetDevicePropValue(propCode uint32, datatypeCode uint16, timeout time.Duration) (DataType, error) {
	buf, err := s.Command(OpGetDevicePropValue, []uint32{propCode}, nil, timeout)
	if err != nil {
		return DataType{}, err
	}
	return DecodeDataType(datatypeCode, NewReader(buf))
}

// SetDevicePropValue sets one device property's current value (opcode
// 0x1016), encoding value via DataType.Encode() as the Data-out phase.
func (s *Session) SetDevicePropValue(propCode uint32, value DataType, timeout time.Duration) error {
	_, err := s.Command(OpSetDevicePropValue, []uint32{propCode}, value.Encode(), timeout)
	return err
}
