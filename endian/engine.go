// Package endian provides the byte order used by denio containers on disk.
//
// Containers are always stored little-endian regardless of the host. The
// Engine interface bundles encoding/binary's ByteOrder and AppendByteOrder so
// header and element codecs can read, write and append through one value.
//
// # Basic Usage
//
//	engine := endian.Wire()
//	dimCount := engine.Uint16(header[2:4])
//
// Bulk decoding paths ask HostIsWire to decide whether a raw memory copy can
// replace per-element decoding:
//
//	if endian.HostIsWire() && storedType == requestedType {
//	    copy(dst, raw) // no byte swapping needed
//	}
//
// # Thread Safety
//
// All functions are safe for concurrent use. The host byte order is probed
// once at package initialization.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// Engine combines ByteOrder and AppendByteOrder from encoding/binary.
//
// binary.LittleEndian and binary.BigEndian both satisfy it.
type Engine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

var host = probeHost()

// probeHost uses a fixed integer value to determine the host's byte order.
func probeHost() binary.ByteOrder {
	// 0x0100 stores 0x00 first on little-endian hosts and 0x01 first on big-endian ones.
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))

	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// Host returns the byte order of the running machine.
func Host() binary.ByteOrder {
	return host
}

// Wire returns the engine for the container wire order (little-endian).
func Wire() Engine {
	return binary.LittleEndian
}

// Little returns the little-endian engine.
func Little() Engine {
	return binary.LittleEndian
}

// Big returns the big-endian engine.
func Big() Engine {
	return binary.BigEndian
}

// HostIsWire reports whether in-memory numeric values already have the wire byte layout.
func HostIsWire() bool {
	return host == binary.LittleEndian
}

// IsHost reports whether engine matches the byte order of the running machine.
func IsHost(engine Engine) bool {
	return engine == host
}
