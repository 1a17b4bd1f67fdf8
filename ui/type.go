package ui

import (
	"log/slog"
	"strconv"
	"strings"
)

// Type is the numeric control type tag of an interface line.
type Type int

const (
	TypeNone        Type = -1
	TypeTextBox     Type = 0
	TypeTextLabel   Type = 1
	TypeNumberBox   Type = 2
	TypeCheckBox    Type = 3
	TypeComboBox    Type = 4
	TypeImage       Type = 5
	TypeTextFile    Type = 6
	TypeButton      Type = 8
	TypeCheckList   Type = 9
	TypeWebLabel    Type = 10
	TypeRadioButton Type = 11
	TypeBevel       Type = 12
	TypeFileBox     Type = 13
	TypeRadioGroup  Type = 14
)

var typeNames = map[Type]string{
	TypeTextBox:     "TextBox",
	TypeTextLabel:   "TextLabel",
	TypeNumberBox:   "NumberBox",
	TypeCheckBox:    "CheckBox",
	TypeComboBox:    "ComboBox",
	TypeImage:       "Image",
	TypeTextFile:    "TextFile",
	TypeButton:      "Button",
	TypeCheckList:   "CheckList",
	TypeWebLabel:    "WebLabel",
	TypeRadioButton: "RadioButton",
	TypeBevel:       "Bevel",
	TypeFileBox:     "FileBox",
	TypeRadioGroup:  "RadioGroup",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}

	if t == TypeNone {
		return "None"
	}

	return "Type(" + strconv.Itoa(int(t)) + ")"
}

// MarshalText implements [encoding.TextMarshaler].
func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements [encoding.TextUnmarshaler].
func (t *Type) UnmarshalText(text []byte) error {
	if strings.EqualFold(string(text), TypeNone.String()) {
		*t = TypeNone

		return nil
	}

	for typ, name := range typeNames {
		if strings.EqualFold(name, string(text)) {
			*t = typ

			return nil
		}
	}

	return ErrInvalidType.With(slog.String("type", string(text)))
}

// Valid reports whether t names a control type.
func (t Type) Valid() bool {
	_, ok := typeNames[t]

	return ok
}

// ParseType parses a decimal type tag. Anything else yields [TypeNone].
func ParseType(s string) Type {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !Type(n).Valid() {
		return TypeNone
	}

	return Type(n)
}

// FontWeight is the weight of caption text.
type FontWeight string

const (
	WeightNormal FontWeight = "Normal"
	WeightBold   FontWeight = "Bold"
)

// FontStyle is an optional decoration of caption text.
type FontStyle string

const (
	StyleNone      FontStyle = ""
	StyleItalic    FontStyle = "Italic"
	StyleUnderline FontStyle = "Underline"
	StyleStrike    FontStyle = "Strike"
)

func parseWeight(s string) (FontWeight, bool) {
	for _, w := range []FontWeight{WeightNormal, WeightBold} {
		if strings.EqualFold(s, string(w)) {
			return w, true
		}
	}

	return "", false
}

func parseStyle(s string) (FontStyle, bool) {
	for _, st := range []FontStyle{StyleItalic, StyleUnderline, StyleStrike} {
		if strings.EqualFold(s, string(st)) {
			return st, true
		}
	}

	return StyleNone, false
}
