package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/bakery/escape"
)

func pkgErr(reason string) error { return errors.New(reason) }

func keyAttr(key string) slog.Attr { return slog.String("key", key) }

func valueAttr(v string) slog.Attr { return slog.String("value", v) }

func typeAttr(t Type) slog.Attr { return slog.String("type", t.String()) }

func argErr(format string, a ...any) error { return fmt.Errorf(format, a...) }

// checkCount validates the number of type-specific fields. max < 0 means
// unbounded. Both bounds count an optional tooltip.
func checkCount(t Type, args []string, minN, maxN int) error {
	if len(args) < minN || (maxN >= 0 && len(args) > maxN) {
		if maxN < 0 {
			return argErr("%s requires at least %d arguments, got %d", t, minN, len(args))
		}

		return argErr("%s requires %d to %d arguments, got %d", t, minN, maxN, len(args))
	}

	return nil
}

func isTooltip(s string) bool { return strings.HasPrefix(s, "__") }

// cutTooltip removes a trailing tooltip from args.
func cutTooltip(args []string) ([]string, Tip) {
	if n := len(args); n > 0 && isTooltip(args[n-1]) {
		return args[:n-1], Tip{Tooltip: escape.Unescape(args[n-1][2:])}
	}

	return args, Tip{}
}

// cutRunOptional removes a trailing "_Section_,True|False" pair from args.
func cutRunOptional(args []string) ([]string, RunOptional) {
	n := len(args)
	if n < 2 {
		return args, RunOptional{}
	}

	hide, ok := parseBool(args[n-1])
	sec := args[n-2]

	if !ok || len(sec) < 2 || !strings.HasPrefix(sec, "_") || !strings.HasSuffix(sec, "_") {
		return args, RunOptional{}
	}

	return args[:n-2], RunOptional{Section: sec[1 : len(sec)-1], HideProgress: hide}
}

func requireBool(s string) (bool, error) {
	v, ok := parseBool(s)
	if !ok {
		return false, argErr("invalid argument [%s], must be True or False", s)
	}

	return v, nil
}

func requireInt(name, s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, argErr("%s [%s] is not a valid integer", name, s)
	}

	return v, nil
}

func unescapeAll(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = escape.Unescape(s)
	}

	return out
}

// parseInfo parses the fields following the geometry of a control of type
// t. text is the control's unescaped display text.
func parseInfo(t Type, text string, args []string) (Info, error) {
	switch t {
	case TypeTextBox:
		if err := checkCount(t, args, 1, 2); err != nil {
			return nil, err
		}

		rest, tip := cutTooltip(args)
		if len(rest) != 1 {
			return nil, argErr("%s requires a value", t)
		}

		return &TextBox{Tip: tip, Value: escape.Unescape(rest[0])}, nil

	case TypeTextLabel:
		if err := checkCount(t, args, 2, 4); err != nil {
			return nil, err
		}

		rest, tip := cutTooltip(args)

		return parseCaption(t, tip, rest, true)

	case TypeNumberBox:
		if err := checkCount(t, args, 4, 5); err != nil {
			return nil, err
		}

		rest, tip := cutTooltip(args)
		if len(rest) != 4 {
			return nil, argErr("%s requires value, min, max and interval", t)
		}

		var v [4]int

		for i, name := range []string{"Value", "Min", "Max", "Interval"} {
			n, err := requireInt(name, rest[i])
			if err != nil {
				return nil, err
			}

			v[i] = n
		}

		return &NumberBox{Tip: tip, Value: v[0], Min: v[1], Max: v[2], Interval: v[3]}, nil

	case TypeCheckBox, TypeRadioButton:
		if err := checkCount(t, args, 1, 4); err != nil {
			return nil, err
		}

		rest, tip := cutTooltip(args)
		rest, run := cutRunOptional(rest)

		if len(rest) != 1 {
			return nil, argErr("%s has unexpected arguments %q", t, rest[1:])
		}

		v, err := requireBool(rest[0])
		if err != nil {
			return nil, err
		}

		if t == TypeCheckBox {
			return &CheckBox{Tip: tip, RunOptional: run, Checked: v}, nil
		}

		return &RadioButton{Tip: tip, RunOptional: run, Selected: v}, nil

	case TypeComboBox:
		rest, tip := cutTooltip(args)
		rest, run := cutRunOptional(rest)

		if len(rest) == 0 {
			return nil, argErr("%s requires at least one item", t)
		}

		items := unescapeAll(rest)

		return &ComboBox{
			Tip:         tip,
			RunOptional: run,
			Items:       items,
			Index:       slices.Index(items, text),
		}, nil

	case TypeImage:
		if err := checkCount(t, args, 0, 2); err != nil {
			return nil, err
		}

		rest, tip := cutTooltip(args)
		info := &Image{Tip: tip}

		if len(rest) > 0 {
			info.URL = escape.Unescape(rest[0])
		}

		return info, nil

	case TypeTextFile:
		if err := checkCount(t, args, 0, 1); err != nil {
			return nil, err
		}

		rest, tip := cutTooltip(args)
		if len(rest) != 0 {
			return nil, argErr("%s takes no arguments", t)
		}

		return &TextFile{Tip: tip}, nil

	case TypeButton:
		if err := checkCount(t, args, 1, -1); err != nil {
			return nil, err
		}

		rest, tip := cutTooltip(args)
		if len(rest) == 0 {
			return nil, argErr("%s requires a section", t)
		}

		info := &Button{Tip: tip, Section: rest[0]}

		if len(rest) >= 2 && rest[1] != noPicture {
			info.Picture = rest[1]
		}

		if len(rest) >= 3 {
			switch rest[2] {
			case "1":
				info.HideProgress = true
			case "0":
			default:
				v, err := requireBool(rest[2])
				if err != nil {
					return nil, err
				}

				info.HideProgress = v
			}
		}

		// Further legacy fields are ignored.
		return info, nil

	case TypeCheckList:
		rest, tip := cutTooltip(args)

		return &CheckList{Tip: tip, Items: unescapeAll(rest)}, nil

	case TypeWebLabel:
		if err := checkCount(t, args, 1, 2); err != nil {
			return nil, err
		}

		rest, tip := cutTooltip(args)
		if len(rest) != 1 {
			return nil, argErr("%s requires a URL", t)
		}

		return &WebLabel{Tip: tip, URL: escape.Unescape(rest[0])}, nil

	case TypeBevel:
		if err := checkCount(t, args, 0, 4); err != nil {
			return nil, err
		}

		rest, tip := cutTooltip(args)
		if len(rest) == 0 {
			return &Bevel{Tip: tip}, nil
		}

		return parseCaption(t, tip, rest, false)

	case TypeFileBox:
		if err := checkCount(t, args, 0, 3); err != nil {
			return nil, err
		}

		info := &FileBox{}

		if len(args) > 0 && !isTooltip(args[0]) {
			switch {
			case strings.EqualFold(args[0], "file"):
				info.IsFile = true
			case strings.EqualFold(args[0], "dir"):
			default:
				return nil, argErr("%s mode [%s] must be file or dir", t, args[0])
			}

			args = args[1:]
		}

		for _, arg := range args {
			switch {
			case len(arg) >= len(titlePrefix) && strings.EqualFold(arg[:len(titlePrefix)], titlePrefix):
				if info.Title != "" {
					return nil, argErr("%s title is duplicated", t)
				}

				info.Title = escape.Unescape(arg[len(titlePrefix):])

			case isTooltip(arg):
				info.Tooltip = escape.Unescape(arg[2:])

			default:
				return nil, argErr("%s has invalid argument [%s]", t, arg)
			}
		}

		return info, nil

	case TypeRadioGroup:
		rest, tip := cutTooltip(args)
		if len(rest) == 0 {
			return nil, argErr("%s requires a selected index", t)
		}

		rest, run := cutRunOptional(rest)
		if len(rest) == 0 {
			return nil, argErr("%s requires a selected index", t)
		}

		idx, err := requireInt("Selected", rest[len(rest)-1])
		if err != nil {
			return nil, err
		}

		return &RadioGroup{
			Tip:         tip,
			RunOptional: run,
			Items:       unescapeAll(rest[:len(rest)-1]),
			Selected:    idx,
		}, nil

	default:
		return nil, argErr("%s has no argument rules", t)
	}
}

// parseCaption parses FontSize,Weight[,Style] for labels and bevels. With
// requireWeight set the weight is mandatory.
func parseCaption(t Type, tip Tip, rest []string, requireWeight bool) (Info, error) {
	if len(rest) > 3 || (requireWeight && len(rest) < 2) {
		return nil, argErr("%s has invalid caption arguments %q", t, rest)
	}

	size, err := requireInt("FontSize", rest[0])
	if err != nil {
		return nil, err
	}

	var (
		weight FontWeight
		style  FontStyle
	)

	if len(rest) >= 2 {
		w, ok := parseWeight(rest[1])
		if !ok {
			return nil, argErr("FontWeight [%s] is invalid", rest[1])
		}

		weight = w
	}

	if len(rest) == 3 {
		s, ok := parseStyle(rest[2])
		if !ok {
			return nil, argErr("FontStyle [%s] is invalid", rest[2])
		}

		style = s
	}

	if t == TypeTextLabel {
		return &TextLabel{Tip: tip, FontSize: size, FontWeight: weight, FontStyle: style}, nil
	}

	return &Bevel{Tip: tip, FontSize: size, FontWeight: weight, FontStyle: style}, nil
}
