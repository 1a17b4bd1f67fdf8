package script

import (
	"log/slog"
	"strconv"
	"strings"
)

// parseEnum stores in dst the value in [0, last] whose name matches text,
// ignoring case. dst is unchanged if nothing matches.
func parseEnum[T ~int](dst *T, text []byte, last T, name func(T) string) error {
	for v := T(0); v <= last; v++ {
		if strings.EqualFold(name(v), string(text)) {
			*dst = v

			return nil
		}
	}

	return ErrInvalidEnum.With(slog.String("value", string(text)))
}

// Kind distinguishes regular scripts, links to scripts, and directories.
type Kind int

const (
	KindStandard Kind = iota
	KindLink
	KindDirectory
)

func (k Kind) String() string {
	switch k {
	case KindStandard:
		return "Standard"
	case KindLink:
		return "Link"
	case KindDirectory:
		return "Directory"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements [encoding.TextUnmarshaler].
func (k *Kind) UnmarshalText(text []byte) error {
	return parseEnum(k, text, KindDirectory, Kind.String)
}

// Selected is the tri-state selection flag of a document.
type Selected int

const (
	SelectedNone Selected = iota
	SelectedTrue
	SelectedFalse
)

func (s Selected) String() string {
	switch s {
	case SelectedNone:
		return "None"
	case SelectedTrue:
		return "True"
	case SelectedFalse:
		return "False"
	default:
		return "Selected(" + strconv.Itoa(int(s)) + ")"
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (s Selected) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *Selected) UnmarshalText(text []byte) error {
	return parseEnum(s, text, SelectedFalse, Selected.String)
}

// SectionType classifies a section by name and content.
type SectionType int

const (
	TypeMain SectionType = iota
	TypeVariables
	TypeInterface
	TypeCode
	TypeUninspected
	TypeAttachFolderList
	TypeAttachFileList
	TypeAttachEncode
)

var sectionTypeNames = [...]string{
	TypeMain:             "Main",
	TypeVariables:        "Variables",
	TypeInterface:        "Interface",
	TypeCode:             "Code",
	TypeUninspected:      "Uninspected",
	TypeAttachFolderList: "AttachFolderList",
	TypeAttachFileList:   "AttachFileList",
	TypeAttachEncode:     "AttachEncode",
}

func (t SectionType) String() string {
	if t.Valid() {
		return sectionTypeNames[t]
	}

	return "SectionType(" + strconv.Itoa(int(t)) + ")"
}

// MarshalText implements [encoding.TextMarshaler].
func (t SectionType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements [encoding.TextUnmarshaler].
func (t *SectionType) UnmarshalText(text []byte) error {
	return parseEnum(t, text, TypeAttachEncode, SectionType.String)
}

// Valid reports whether t is a defined section type.
func (t SectionType) Valid() bool { return t >= 0 && int(t) < len(sectionTypeNames) }

// Shape reports how the body of a section of type t is read.
func (t SectionType) Shape() Shape {
	switch t {
	case TypeMain, TypeVariables, TypeAttachFileList:
		return ShapeKeyValue
	default:
		return ShapeLineList
	}
}

// buffered reports whether bodies of type t are kept in memory on load.
func (t SectionType) buffered() bool { return t != TypeAttachEncode }

// Shape is the body layout of a section.
type Shape int

const (
	// ShapeKeyValue bodies are ini-style "Key=Value" lines.
	ShapeKeyValue Shape = iota
	// ShapeLineList bodies are ordered lines.
	ShapeLineList
)

func (s Shape) String() string {
	switch s {
	case ShapeKeyValue:
		return "KeyValue"
	case ShapeLineList:
		return "LineList"
	default:
		return "Shape(" + strconv.Itoa(int(s)) + ")"
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (s Shape) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *Shape) UnmarshalText(text []byte) error {
	return parseEnum(s, text, ShapeLineList, Shape.String)
}

// State is the load state of a section body.
type State int

const (
	// StateUnloaded sections hold no body; it is read on demand.
	StateUnloaded State = iota
	// StateLoaded sections hold their raw lines.
	StateLoaded
	// StateConverted sections also hold parsed commands or controls.
	StateConverted
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "Unloaded"
	case StateLoaded:
		return "Loaded"
	case StateConverted:
		return "Converted"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *State) UnmarshalText(text []byte) error {
	return parseEnum(s, text, StateConverted, State.String)
}

// Conversion tags the derived form held by a converted section.
type Conversion int

const (
	ConvertedNone Conversion = iota
	ConvertedCode
	ConvertedInterface
)

func (c Conversion) String() string {
	switch c {
	case ConvertedNone:
		return "None"
	case ConvertedCode:
		return "Code"
	case ConvertedInterface:
		return "Interface"
	default:
		return "Conversion(" + strconv.Itoa(int(c)) + ")"
	}
}

// Well-known section names and prefixes.
const (
	NameMain             = "Main"
	NameVariables        = "Variables"
	NameInterface        = "Interface"
	NameProcess          = "Process"
	NameEncodedFolders   = "EncodedFolders"
	NameAuthorEncoded    = "AuthorEncoded"
	NameInterfaceEncoded = "InterfaceEncoded"
	PrefixEncodedFile    = "EncodedFile-"
)

// classify returns the type of a section from its name alone. Sections
// that need their document's manifest to classify are [TypeUninspected].
func classify(name string) SectionType {
	switch {
	case equalFold(name, NameMain):
		return TypeMain
	case equalFold(name, NameVariables):
		return TypeVariables
	case equalFold(name, NameInterface):
		return TypeInterface
	case equalFold(name, NameEncodedFolders):
		return TypeAttachFolderList
	case equalFold(name, NameAuthorEncoded), equalFold(name, NameInterfaceEncoded):
		return TypeAttachFileList
	case hasPrefixFold(name, PrefixEncodedFile):
		return TypeAttachEncode
	default:
		return TypeUninspected
	}
}
