package render

import (
	"fmt"
	"strings"
	"sync"
)

// AttributeFormat identifies the wire type of one vertex attribute.
type AttributeFormat int

const (
	FormatFloat1 AttributeFormat = iota
	FormatFloat2
	FormatFloat3
	FormatFloat4
	FormatBytes4
)

// ByteSize returns the attribute width in bytes.
func (f AttributeFormat) ByteSize() int {
	switch f {
	case FormatFloat1:
		return 4
	case FormatFloat2:
		return 8
	case FormatFloat3:
		return 12
	case FormatFloat4:
		return 16
	case FormatBytes4:
		return 4
	default:
		return 0
	}
}

func (f AttributeFormat) String() string {
	switch f {
	case FormatFloat1:
		return "float1"
	case FormatFloat2:
		return "float2"
	case FormatFloat3:
		return "float3"
	case FormatFloat4:
		return "float4"
	case FormatBytes4:
		return "bytes4"
	default:
		return "unknown"
	}
}

// parseAttributeFormat resolves a type token. Tokens are
// case-sensitive.
func parseAttributeFormat(token string) (AttributeFormat, bool) {
	switch token {
	case "float1":
		return FormatFloat1, true
	case "float2":
		return FormatFloat2, true
	case "float3":
		return FormatFloat3, true
	case "float4":
		return FormatFloat4, true
	case "bytes4":
		return FormatBytes4, true
	}
	return 0, false
}

// Attribute is one named, typed field within a vertex record.
type Attribute struct {
	Name   string
	Format AttributeFormat

	// Offset is the byte position within one vertex.
	Offset int

	// IsColor marks attributes whose name contains "color" in any
	// casing. Color attributes get white-opaque defaults, packed RGBA
	// encoding and premultiplication handling.
	IsColor bool
}

// Size returns the attribute width in bytes.
func (a Attribute) Size() int {
	return a.Format.ByteSize()
}

// VertexFormat is an immutable ordered attribute layout. Attribute
// order defines the physical byte layout of a vertex; Stride is the
// total record width.
//
// Two formats are interchangeable without conversion only when they are
// the same instance: copies between stores branch on pointer identity,
// not structural equality. ParseFormat always builds a fresh instance,
// so structurally equal parses still take the converting path. Use
// SharedFormat to get the canonical instance for a descriptor when the
// block-copy fast path should engage.
type VertexFormat struct {
	descriptor string
	attributes []Attribute
	stride     int
}

// ParseFormat builds a fresh format from a descriptor of comma
// separated "name:type" pairs, e.g. "position:float2, color:bytes4".
// Types are one of float1, float2, float3, float4, bytes4. Duplicate
// names, unknown types and malformed pairs fail with ErrInvalidFormat.
func ParseFormat(descriptor string) (*VertexFormat, error) {
	tokens := strings.Split(descriptor, ",")
	attributes := make([]Attribute, 0, len(tokens))
	seen := make(map[string]bool, len(tokens))
	offset := 0

	for _, token := range tokens {
		token = strings.TrimSpace(token)
		name, typeToken, ok := strings.Cut(token, ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a name:type pair", ErrInvalidFormat, token)
		}
		name = strings.TrimSpace(name)
		typeToken = strings.TrimSpace(typeToken)
		if name == "" {
			return nil, fmt.Errorf("%w: attribute with empty name in %q", ErrInvalidFormat, descriptor)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate attribute %q", ErrInvalidFormat, name)
		}
		seen[name] = true

		format, ok := parseAttributeFormat(typeToken)
		if !ok {
			return nil, fmt.Errorf("%w: unknown attribute type %q", ErrInvalidFormat, typeToken)
		}

		attributes = append(attributes, Attribute{
			Name:    name,
			Format:  format,
			Offset:  offset,
			IsColor: strings.Contains(strings.ToLower(name), "color"),
		})
		offset += format.ByteSize()
	}

	parts := make([]string, len(attributes))
	for i, a := range attributes {
		parts[i] = a.Name + ":" + a.Format.String()
	}

	return &VertexFormat{
		descriptor: strings.Join(parts, ", "),
		attributes: attributes,
		stride:     offset,
	}, nil
}

var (
	sharedFormatsMu sync.Mutex
	sharedFormats   = map[string]*VertexFormat{}
)

// SharedFormat returns the canonical instance for a descriptor. Every
// call with descriptors normalizing to the same layout yields the same
// pointer, which is what arms the block-copy fast path between stores.
func SharedFormat(descriptor string) (*VertexFormat, error) {
	f, err := ParseFormat(descriptor)
	if err != nil {
		return nil, err
	}
	sharedFormatsMu.Lock()
	defer sharedFormatsMu.Unlock()
	if cached, ok := sharedFormats[f.descriptor]; ok {
		return cached, nil
	}
	sharedFormats[f.descriptor] = f
	return f, nil
}

// MustFormat is SharedFormat for layouts known at compile time; it
// panics on a malformed descriptor.
func MustFormat(descriptor string) *VertexFormat {
	f, err := SharedFormat(descriptor)
	if err != nil {
		panic(fmt.Sprintf("render: bad vertex format literal: %v", err))
	}
	return f
}

// DefaultFormat is the layout stores use when created without an
// explicit format: a 2D position, a texture coordinate and a packed
// color.
var DefaultFormat = MustFormat("position:float2, texCoords:float2, color:bytes4")

// String returns the canonical descriptor.
func (f *VertexFormat) String() string {
	return f.descriptor
}

// Stride returns the byte width of one vertex.
func (f *VertexFormat) Stride() int {
	return f.stride
}

// StrideIn32Bits returns the vertex width in 32-bit words, the unit GPU
// vertex declarations use.
func (f *VertexFormat) StrideIn32Bits() int {
	return f.stride / 4
}

func (f *VertexFormat) NumAttributes() int {
	return len(f.attributes)
}

// AttributeAt returns the attribute at a position in layout order.
func (f *VertexFormat) AttributeAt(i int) Attribute {
	return f.attributes[i]
}

func (f *VertexFormat) HasAttribute(name string) bool {
	return f.attr(name) != nil
}

// Attribute looks up an attribute by name, case-sensitively.
func (f *VertexFormat) Attribute(name string) (Attribute, error) {
	if a := f.attr(name); a != nil {
		return *a, nil
	}
	return Attribute{}, fmt.Errorf("%w: %q in format %q", ErrAttributeNotFound, name, f.descriptor)
}

// OffsetOf returns the byte offset of a named attribute within a
// vertex.
func (f *VertexFormat) OffsetOf(name string) (int, error) {
	a := f.attr(name)
	if a == nil {
		return 0, fmt.Errorf("%w: %q in format %q", ErrAttributeNotFound, name, f.descriptor)
	}
	return a.Offset, nil
}

// Extend returns the shared format with additional attributes appended
// to this one's layout.
func (f *VertexFormat) Extend(descriptor string) (*VertexFormat, error) {
	return SharedFormat(f.descriptor + ", " + descriptor)
}

// attr returns nil when the name is absent.
func (f *VertexFormat) attr(name string) *Attribute {
	for i := range f.attributes {
		if f.attributes[i].Name == name {
			return &f.attributes[i]
		}
	}
	return nil
}
