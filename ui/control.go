// Package ui parses the interface sections of script documents.
//
// Each interface line describes one control:
//
//	Key=Text,Visibility,Type,X,Y,Width,Height[,fields...][,__Tooltip]
//
// The fields following the geometry depend on the control [Type] and are
// held by the control's [Info] payload. A parsed [Control] can be edited
// with [Control.SetValue] and written back with [Control.Forge].
package ui

import (
	"strconv"
	"strings"

	"github.com/ardnew/bakery/escape"
)

// Rect is the position and size of a control.
type Rect struct {
	X      int `json:"x"      yaml:"x"`
	Y      int `json:"y"      yaml:"y"`
	Width  int `json:"width"  yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Control is one parsed interface line.
type Control struct {
	Key     string `json:"key"     yaml:"key"`
	Text    string `json:"text"    yaml:"text"`
	Visible bool   `json:"visible" yaml:"visible"`
	Type    Type   `json:"type"    yaml:"type"`
	Rect    Rect   `json:"rect"    yaml:"rect"`
	Info    Info   `json:"info"    yaml:"info"`
	// Raw is the source text, joined across continuation lines.
	Raw     string `json:"raw"     yaml:"raw"`
	Section string `json:"section" yaml:"section"`
	// Line is the 1-based line number of Raw in its document.
	Line int `json:"line" yaml:"line"`
}

// Forge serializes c into its interface line. With includeKey unset the
// "Key=" prefix is omitted, giving the value of an ini-style entry.
func (c *Control) Forge(includeKey bool) string {
	var b strings.Builder

	if includeKey {
		b.WriteString(c.Key)
		b.WriteByte('=')
	}

	b.WriteString(escape.QuoteEscape(c.Text))

	if c.Visible {
		b.WriteString(",1,")
	} else {
		b.WriteString(",0,")
	}

	b.WriteString(strconv.Itoa(int(c.Type)))

	for _, n := range []int{c.Rect.X, c.Rect.Y, c.Rect.Width, c.Rect.Height} {
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(n))
	}

	if c.Info != nil {
		c.Info.forge(&b)
	}

	return b.String()
}

func (c *Control) String() string { return c.Forge(true) }

// Value returns the value a control exports as a variable. Controls
// without a value, such as labels and images, report false.
func (c *Control) Value() (string, bool) {
	switch info := c.Info.(type) {
	case *TextBox:
		return info.Value, true
	case *NumberBox:
		return strconv.Itoa(info.Value), true
	case *CheckBox:
		return formatBool(info.Checked, ""), true
	case *ComboBox:
		return c.Text, true
	case *RadioButton:
		return formatBool(info.Selected, ""), true
	case *FileBox:
		return c.Text, true
	case *RadioGroup:
		return strconv.Itoa(info.Selected), true
	default:
		return "", false
	}
}

// SetValue validates v and stores it in c. On error c is unchanged.
//
// Numbers must be integers within the control's range, booleans must be
// True or False, and selections must name an item (ComboBox, ignoring
// case) or an item index (RadioGroup).
func (c *Control) SetValue(v string) error {
	invalid := func(reason string) error {
		return ErrInvalidValue.Wrap(pkgErr(reason)).With(keyAttr(c.Key), valueAttr(v))
	}

	switch info := c.Info.(type) {
	case *TextLabel:
		c.Text = v

	case *TextBox:
		info.Value = v

	case *FileBox:
		c.Text = v

	case *NumberBox:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return invalid("not an integer")
		}

		if n < info.Min || n > info.Max {
			return invalid("out of range " + strconv.Itoa(info.Min) + ".." + strconv.Itoa(info.Max))
		}

		info.Value = n

	case *CheckBox:
		b, ok := parseBool(v)
		if !ok {
			return invalid("not a boolean")
		}

		info.Checked = b

	case *RadioButton:
		b, ok := parseBool(v)
		if !ok {
			return invalid("not a boolean")
		}

		info.Selected = b

	case *ComboBox:
		idx := -1

		for i, item := range info.Items {
			if strings.EqualFold(item, v) {
				idx = i

				break
			}
		}

		if idx < 0 {
			return invalid("not in item list")
		}

		info.Index = idx
		c.Text = info.Items[idx]

	case *RadioGroup:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 || n >= len(info.Items) {
			return invalid("not an item index")
		}

		info.Selected = n

	default:
		return ErrNoValue.With(keyAttr(c.Key), typeAttr(c.Type))
	}

	return nil
}

func parseBool(s string) (v, ok bool) {
	switch {
	case strings.EqualFold(s, "True"):
		return true, true
	case strings.EqualFold(s, "False"):
		return false, true
	default:
		return false, false
	}
}
