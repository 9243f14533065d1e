package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/usbptp/goptp/objectstore"
	"github.com/usbptp/goptp/ptp"
)

// NewDeviceRoutes binds sess to the routes named in the routing table:
// device info, storages, objects, and device properties, plus a
// /session/close that tears the session down. store is optional; when
// non-nil, GET /objects/{handle}/data additionally saves the fetched bytes
// via store.Save.
func NewDeviceRoutes(sess *ptp.Session, store *objectstore.Downloader, timeout time.Duration) RouteTable2 {
	rt := RouteTable2{}

	rt[MethodPath{http.MethodGet, "/device-info"}] = getDeviceInfo(sess, timeout)
	rt[MethodPath{http.MethodGet, "/storages"}] = getStorageIDs(sess, timeout)
	rt[MethodPath{http.MethodGet, "/storages/{id}"}] = getStorageInfo(sess, timeout)
	rt[MethodPath{http.MethodGet, "/objects"}] = getObjectHandles(sess, timeout)
	rt[MethodPath{http.MethodGet, "/objects/{handle}"}] = getObjectInfo(sess, timeout)
	rt[MethodPath{http.MethodGet, "/objects/{handle}/data"}] = getObjectData(sess, store, timeout)
	rt[MethodPath{http.MethodDelete, "/objects/{handle}"}] = deleteObject(sess, timeout)
	rt[MethodPath{http.MethodGet, "/properties/{code}"}] = getDeviceProp(sess, timeout)
	rt[MethodPath{http.MethodPost, "/properties/{code}"}] = setDeviceProp(sess, timeout)
	rt[MethodPath{http.MethodPost, "/session/close"}] = closeSession(sess, timeout)

	return rt
}

func getDeviceInfo(sess *ptp.Session, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := sess.GetDeviceInfo(timeout)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}

func getStorageIDs(sess *ptp.Session, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := sess.GetStorageIDs(timeout)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, ids)
	}
}

func parseUint32Param(r *http.Request, name string) (uint32, error) {
	v := chi.URLParam(r, name)
	n, err := strconv.ParseUint(v, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("bad %s %q: %w", name, v, err)
	}
	return uint32(n), nil
}

func getStorageInfo(sess *ptp.Session, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUint32Param(r, "id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		info, err := sess.GetStorageInfo(id, timeout)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}

// queryUint32 reads a uint32 query parameter, defaulting to def when absent
// or empty.
func queryUint32(r *http.Request, name string, def uint32) (uint32, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(v, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("bad %s %q: %w", name, v, err)
	}
	return uint32(n), nil
}

func getObjectHandles(sess *ptp.Session, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storage, err := queryUint32(r, "storage", 0xFFFFFFFF)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		format, err := queryUint32(r, "format", 0)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		parent, err := queryUint32(r, "parent", ptp.ParentRoot)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		handles, err := sess.GetObjectHandles(storage, format, parent, timeout)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, handles)
	}
}

func getObjectInfo(sess *ptp.Session, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handle, err := parseUint32Param(r, "handle")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		info, err := sess.GetObjectInfo(handle, timeout)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}

func getObjectData(sess *ptp.Session, store *objectstore.Downloader, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handle, err := parseUint32Param(r, "handle")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		data, err := sess.GetObject(handle, timeout)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if store != nil {
			if info, infoErr := sess.GetObjectInfo(handle, timeout); infoErr == nil {
				if _, saveErr := store.Save(info, data, time.Now(), 0); saveErr != nil {
					logf("httpapi: saving object %d: %v", handle, saveErr)
				}
			}
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}

func deleteObject(sess *ptp.Session, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handle, err := parseUint32Param(r, "handle")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := sess.DeleteObject(handle, timeout); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// propertyPayload is the wire shape for GET/POST /properties/{code}: the
// caller must supply (and is told back) the PTP DataType code, since the
// core's DecodeDataType needs it explicitly rather than self-describing.
type propertyPayload struct {
	Code     uint32          `json:"code"`
	DataType uint16          `json:"datatype"`
	Value    json.RawMessage `json:"value"`
}

func getDeviceProp(sess *ptp.Session, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, err := parseUint32Param(r, "code")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		desc, err := sess.GetDevicePropDesc(code, timeout)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		value, err := sess.GetDevicePropValue(code, desc.DataTypeCode, timeout)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		raw, err := json.Marshal(dataTypeToAny(value))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, propertyPayload{Code: code, DataType: desc.DataTypeCode, Value: raw})
	}
}

func setDeviceProp(sess *ptp.Session, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, err := parseUint32Param(r, "code")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var payload propertyPayload
		if err := readJSON(r, &payload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		value, err := dataTypeFromJSON(payload.DataType, payload.Value)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := sess.SetDevicePropValue(code, value, timeout); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

func closeSession(sess *ptp.Session, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sess.CloseSession(timeout); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// dataTypeToAny extracts v's scalar or string value as a plain Go value
// suitable for JSON encoding. Array variants are not meaningful for device
// property values (ISO 15740's DevicePropDesc is always scalar or string)
// and encode as nil.
func dataTypeToAny(v ptp.DataType) interface{} {
	switch v.TypeCode() {
	case ptp.TypeInt8:
		x, _ := v.Int8()
		return x
	case ptp.TypeUint8:
		x, _ := v.Uint8()
		return x
	case ptp.TypeInt16:
		x, _ := v.Int16()
		return x
	case ptp.TypeUint16:
		x, _ := v.Uint16()
		return x
	case ptp.TypeInt32:
		x, _ := v.Int32()
		return x
	case ptp.TypeUint32:
		x, _ := v.Uint32()
		return x
	case ptp.TypeInt64:
		x, _ := v.Int64()
		return x
	case ptp.TypeUint64:
		x, _ := v.Uint64()
		return x
	case ptp.TypeStr:
		x, _ := v.Str()
		return x
	default:
		return nil
	}
}

// dataTypeFromJSON builds a DataType of the given code from a JSON scalar,
// the inverse of dataTypeToAny.
func dataTypeFromJSON(code uint16, raw json.RawMessage) (ptp.DataType, error) {
	switch code {
	case ptp.TypeInt8:
		var x int8
		if err := json.Unmarshal(raw, &x); err != nil {
			return ptp.DataType{}, err
		}
		return ptp.Int8Value(x), nil
	case ptp.TypeUint8:
		var x uint8
		if err := json.Unmarshal(raw, &x); err != nil {
			return ptp.DataType{}, err
		}
		return ptp.Uint8Value(x), nil
	case ptp.TypeInt16:
		var x int16
		if err := json.Unmarshal(raw, &x); err != nil {
			return ptp.DataType{}, err
		}
		return ptp.Int16Value(x), nil
	case ptp.TypeUint16:
		var x uint16
		if err := json.Unmarshal(raw, &x); err != nil {
			return ptp.DataType{}, err
		}
		return ptp.Uint16Value(x), nil
	case ptp.TypeInt32:
		var x int32
		if err := json.Unmarshal(raw, &x); err != nil {
			return ptp.DataType{}, err
		}
		return ptp.Int32Value(x), nil
	case ptp.TypeUint32:
		var x uint32
		if err := json.Unmarshal(raw, &x); err != nil {
			return ptp.DataType{}, err
		}
		return ptp.Uint32Value(x), nil
	case ptp.TypeInt64:
		var x int64
		if err := json.Unmarshal(raw, &x); err != nil {
			return ptp.DataType{}, err
		}
		return ptp.Int64Value(x), nil
	case ptp.TypeUint64:
		var x uint64
		if err := json.Unmarshal(raw, &x); err != nil {
			return ptp.DataType{}, err
		}
		return ptp.Uint64Value(x), nil
	case ptp.TypeStr:
		var x string
		if err := json.Unmarshal(raw, &x); err != nil {
			return ptp.DataType{}, err
		}
		return ptp.StringValue(x), nil
	default:
		return ptp.DataType{}, fmt.Errorf("httpapi: unsupported property datatype code 0x%04x", code)
	}
}
