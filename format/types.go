package format

type (
	// ElementType identifies the numeric type of container elements.
	//
	// The numeric values equal the element type ids stored in the Extended header.
	ElementType uint16
	// StorageOrder is the in-frame layout of elements on disk.
	StorageOrder uint16
	// HeaderKind distinguishes the two header variants.
	HeaderKind uint8
	// CompressionType selects the codec used by frame archives.
	CompressionType uint8
)

const (
	TypeUint16  ElementType = 0 // TypeUint16 is an unsigned 16-bit integer.
	TypeInt16   ElementType = 1 // TypeInt16 is a signed 16-bit integer.
	TypeUint32  ElementType = 2 // TypeUint32 is an unsigned 32-bit integer.
	TypeInt32   ElementType = 3 // TypeInt32 is a signed 32-bit integer.
	TypeUint64  ElementType = 4 // TypeUint64 is an unsigned 64-bit integer.
	TypeInt64   ElementType = 5 // TypeInt64 is a signed 64-bit integer.
	TypeFloat32 ElementType = 6 // TypeFloat32 is an IEEE 754 single precision float.
	TypeFloat64 ElementType = 7 // TypeFloat64 is an IEEE 754 double precision float.
	TypeUint8   ElementType = 8 // TypeUint8 is an unsigned byte.

	// TypeUnknown marks a descriptor whose element type could not be determined.
	TypeUnknown ElementType = 0xFFFF
)

const (
	// XMajor stores the first (x) coordinate fastest: (0,0), (1,0), (0,1), (1,1).
	XMajor StorageOrder = 0
	// YMajor stores the second (y) coordinate fastest: (0,0), (0,1), (1,0), (1,1).
	YMajor StorageOrder = 1
)

const (
	HeaderLegacy   HeaderKind = 0x1 // HeaderLegacy is the 6-byte three-dimensional header.
	HeaderExtended HeaderKind = 0x2 // HeaderExtended is the 4096-byte self-describing header.
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone stores frames verbatim.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// ElementTypes lists every supported element type in header id order.
var ElementTypes = []ElementType{
	TypeUint16, TypeInt16, TypeUint32, TypeInt32, TypeUint64,
	TypeInt64, TypeFloat32, TypeFloat64, TypeUint8,
}

// Valid reports whether e is one of the supported element types.
func (e ElementType) Valid() bool {
	return e <= TypeUint8
}

// ByteSize returns the canonical byte size of the element type, or 0 if unsupported.
func (e ElementType) ByteSize() int {
	switch e {
	case TypeUint8:
		return 1
	case TypeUint16, TypeInt16:
		return 2
	case TypeUint32, TypeInt32, TypeFloat32:
		return 4
	case TypeUint64, TypeInt64, TypeFloat64:
		return 8
	default:
		return 0
	}
}

// IsFloat reports whether e is a floating point type.
func (e ElementType) IsFloat() bool {
	return e == TypeFloat32 || e == TypeFloat64
}

func (e ElementType) String() string {
	switch e {
	case TypeUint8:
		return "uint8"
	case TypeUint16:
		return "uint16"
	case TypeInt16:
		return "int16"
	case TypeUint32:
		return "uint32"
	case TypeInt32:
		return "int32"
	case TypeUint64:
		return "uint64"
	case TypeInt64:
		return "int64"
	case TypeFloat32:
		return "float32"
	case TypeFloat64:
		return "float64"
	default:
		return "unknown"
	}
}

// ParseElementType maps a type name as printed by String back to the ElementType.
func ParseElementType(name string) (ElementType, bool) {
	for _, e := range ElementTypes {
		if e.String() == name {
			return e, true
		}
	}

	return TypeUnknown, false
}

// LegacyElementType maps the element byte width inferred from a legacy file to its type.
//
// Legacy headers carry no type id: 2 bytes means uint16, 4 float32 and 8 float64.
func LegacyElementType(byteSize uint64) (ElementType, bool) {
	switch byteSize {
	case 2:
		return TypeUint16, true
	case 4:
		return TypeFloat32, true
	case 8:
		return TypeFloat64, true
	default:
		return TypeUnknown, false
	}
}

// Valid reports whether o is a known storage order.
func (o StorageOrder) Valid() bool {
	return o == XMajor || o == YMajor
}

// Opposite returns the other storage order.
func (o StorageOrder) Opposite() StorageOrder {
	if o == XMajor {
		return YMajor
	}

	return XMajor
}

func (o StorageOrder) String() string {
	switch o {
	case XMajor:
		return "x-major"
	case YMajor:
		return "y-major"
	default:
		return "unknown"
	}
}

// ParseStorageOrder maps "x-major"/"y-major" (or "x"/"y") to a StorageOrder.
func ParseStorageOrder(name string) (StorageOrder, bool) {
	switch name {
	case "x-major", "x", "xmajor":
		return XMajor, true
	case "y-major", "y", "ymajor":
		return YMajor, true
	default:
		return XMajor, false
	}
}

func (k HeaderKind) String() string {
	switch k {
	case HeaderLegacy:
		return "Legacy"
	case HeaderExtended:
		return "Extended"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompressionType maps a case-sensitive lower-case codec name to a CompressionType.
func ParseCompressionType(name string) (CompressionType, bool) {
	switch name {
	case "none":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return CompressionNone, false
	}
}
