package ui

import (
	"strconv"
	"strings"

	"github.com/ardnew/bakery/escape"
)

// Info is the type-specific payload of a [Control]. The set of
// implementations is closed; switch on the concrete type to inspect it.
type Info interface {
	// Hint returns the tooltip, without its "__" prefix.
	Hint() string
	// forge appends the payload fields, each preceded by a comma.
	forge(b *strings.Builder)
}

// Tip is embedded in every payload.
type Tip struct {
	Tooltip string `json:"tooltip,omitempty" yaml:"tooltip,omitempty"`
}

func (t Tip) Hint() string { return t.Tooltip }

func (t Tip) forgeTooltip(b *strings.Builder) {
	if t.Tooltip != "" {
		b.WriteByte(',')
		b.WriteString(escape.QuoteEscape("__" + t.Tooltip))
	}
}

// RunOptional names a section run when a selection control changes.
type RunOptional struct {
	Section      string `json:"section,omitempty"      yaml:"section,omitempty"`
	HideProgress bool   `json:"hideProgress,omitempty" yaml:"hideProgress,omitempty"`
}

func (r RunOptional) forgeRun(b *strings.Builder) {
	if r.Section != "" {
		b.WriteString(",_")
		b.WriteString(r.Section)
		b.WriteByte('_')
		b.WriteString(formatBool(r.HideProgress, ","))
	}
}

type TextBox struct {
	Tip
	Value string `json:"value" yaml:"value"`
}

type TextLabel struct {
	Tip
	FontSize   int        `json:"fontSize"        yaml:"fontSize"`
	FontWeight FontWeight `json:"fontWeight"      yaml:"fontWeight"`
	FontStyle  FontStyle  `json:"fontStyle,omitempty" yaml:"fontStyle,omitempty"`
}

type NumberBox struct {
	Tip
	Value    int `json:"value"    yaml:"value"`
	Min      int `json:"min"      yaml:"min"`
	Max      int `json:"max"      yaml:"max"`
	Interval int `json:"interval" yaml:"interval"`
}

type CheckBox struct {
	Tip
	RunOptional
	Checked bool `json:"checked" yaml:"checked"`
}

type ComboBox struct {
	Tip
	RunOptional
	Items []string `json:"items" yaml:"items"`
	// Index is the position of the control text in Items, or -1.
	Index int `json:"index" yaml:"index"`
}

type Image struct {
	Tip
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

type TextFile struct {
	Tip
}

type Button struct {
	Tip
	Section string `json:"section" yaml:"section"`
	// Picture is the attached image name, or "" for none.
	Picture      string `json:"picture,omitempty" yaml:"picture,omitempty"`
	HideProgress bool   `json:"hideProgress"      yaml:"hideProgress"`
}

type CheckList struct {
	Tip
	Items []string `json:"items" yaml:"items"`
}

type WebLabel struct {
	Tip
	URL string `json:"url" yaml:"url"`
}

type RadioButton struct {
	Tip
	RunOptional
	Selected bool `json:"selected" yaml:"selected"`
}

// Bevel draws a frame with an optional caption style. FontSize 0 means no
// caption style is set.
type Bevel struct {
	Tip
	FontSize   int        `json:"fontSize,omitempty"   yaml:"fontSize,omitempty"`
	FontWeight FontWeight `json:"fontWeight,omitempty" yaml:"fontWeight,omitempty"`
	FontStyle  FontStyle  `json:"fontStyle,omitempty"  yaml:"fontStyle,omitempty"`
}

type FileBox struct {
	Tip
	IsFile bool   `json:"isFile"          yaml:"isFile"`
	Title  string `json:"title,omitempty" yaml:"title,omitempty"`
}

type RadioGroup struct {
	Tip
	RunOptional
	Items    []string `json:"items"    yaml:"items"`
	Selected int      `json:"selected" yaml:"selected"`
}

func (i *TextBox) forge(b *strings.Builder) {
	b.WriteByte(',')
	b.WriteString(escape.QuoteEscape(i.Value))
	i.forgeTooltip(b)
}

func (i *TextLabel) forge(b *strings.Builder) {
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(i.FontSize))
	b.WriteByte(',')
	b.WriteString(string(i.FontWeight))

	if i.FontStyle != StyleNone {
		b.WriteByte(',')
		b.WriteString(string(i.FontStyle))
	}

	i.forgeTooltip(b)
}

func (i *NumberBox) forge(b *strings.Builder) {
	for _, n := range []int{i.Value, i.Min, i.Max, i.Interval} {
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(n))
	}

	i.forgeTooltip(b)
}

func (i *CheckBox) forge(b *strings.Builder) {
	b.WriteString(formatBool(i.Checked, ","))
	i.forgeRun(b)
	i.forgeTooltip(b)
}

func (i *ComboBox) forge(b *strings.Builder) {
	forgeItems(b, i.Items)
	i.forgeRun(b)
	i.forgeTooltip(b)
}

func (i *Image) forge(b *strings.Builder) {
	if i.URL != "" {
		b.WriteByte(',')
		b.WriteString(escape.Escape(i.URL, false, false))
	}

	i.forgeTooltip(b)
}

func (i *TextFile) forge(b *strings.Builder) { i.forgeTooltip(b) }

func (i *Button) forge(b *strings.Builder) {
	b.WriteByte(',')
	b.WriteString(i.Section)
	b.WriteByte(',')

	if i.Picture == "" {
		b.WriteString(noPicture)
	} else {
		b.WriteString(i.Picture)
	}

	b.WriteString(formatBool(i.HideProgress, ","))
	i.forgeTooltip(b)
}

func (i *CheckList) forge(b *strings.Builder) {
	forgeItems(b, i.Items)
	i.forgeTooltip(b)
}

func (i *WebLabel) forge(b *strings.Builder) {
	b.WriteByte(',')
	b.WriteString(escape.Escape(i.URL, false, false))
	i.forgeTooltip(b)
}

func (i *RadioButton) forge(b *strings.Builder) {
	b.WriteString(formatBool(i.Selected, ","))
	i.forgeRun(b)
	i.forgeTooltip(b)
}

func (i *Bevel) forge(b *strings.Builder) {
	if i.FontSize != 0 {
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(i.FontSize))

		if i.FontWeight != "" {
			b.WriteByte(',')
			b.WriteString(string(i.FontWeight))

			if i.FontStyle != StyleNone {
				b.WriteByte(',')
				b.WriteString(string(i.FontStyle))
			}
		}
	}

	i.forgeTooltip(b)
}

func (i *FileBox) forge(b *strings.Builder) {
	if i.IsFile {
		b.WriteString(",file")
	} else {
		b.WriteString(",dir")
	}

	if i.Title != "" {
		b.WriteByte(',')
		b.WriteString(escape.QuoteEscape(titlePrefix + i.Title))
	}

	i.forgeTooltip(b)
}

func (i *RadioGroup) forge(b *strings.Builder) {
	forgeItems(b, i.Items)
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(i.Selected))
	i.forgeRun(b)
	i.forgeTooltip(b)
}

func forgeItems(b *strings.Builder, items []string) {
	for _, item := range items {
		b.WriteByte(',')
		b.WriteString(escape.QuoteEscape(item))
	}
}

func formatBool(v bool, prefix string) string {
	if v {
		return prefix + "True"
	}

	return prefix + "False"
}

const (
	noPicture   = "0"
	titlePrefix = "Title="
)
