package ui

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/bakery/diag"
)

func parseOne(t *testing.T, line string) *Control {
	t.Helper()

	c, n, err := ParseLine([]string{line}, 0, "Interface", 1)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	return c
}

func TestParseLineInfo(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Info
	}{
		{
			"TextBox",
			`pTextBox1="Some text",1,0,10,10,200,21,value,"__a tip"`,
			&TextBox{Tip: Tip{Tooltip: "a tip"}, Value: "value"},
		},
		{
			"TextLabel",
			`pTextLabel1=Label,1,1,10,10,230,18,8,Bold,Italic`,
			&TextLabel{FontSize: 8, FontWeight: WeightBold, FontStyle: StyleItalic},
		},
		{
			"NumberBox",
			`pNumberBox1=NumberBox,1,2,10,10,40,22,3,0,100,1`,
			&NumberBox{Value: 3, Min: 0, Max: 100, Interval: 1},
		},
		{
			"CheckBox",
			`pCheckBox1=CheckBox,1,3,10,10,200,18,True,_Run_,False,__tip`,
			&CheckBox{
				Tip:         Tip{Tooltip: "tip"},
				RunOptional: RunOptional{Section: "Run"},
				Checked:     true,
			},
		},
		{
			"ComboBox",
			`pComboBox1=B,1,4,10,10,150,21,A,B,C`,
			&ComboBox{Items: []string{"A", "B", "C"}, Index: 1},
		},
		{
			"Image",
			`pImage1=logo.jpg,1,5,10,10,100,100,https://example.org`,
			&Image{URL: "https://example.org"},
		},
		{
			"TextFile",
			`pTextFile1=readme.txt,1,6,10,10,200,86`,
			&TextFile{},
		},
		{
			"Button",
			`pButton1=Go,1,8,10,10,80,25,Process,0,1`,
			&Button{Section: "Process", HideProgress: true},
		},
		{
			"ButtonPicture",
			`pButton1=Go,1,8,10,10,80,25,Process,go.bmp,False`,
			&Button{Section: "Process", Picture: "go.bmp"},
		},
		{
			"CheckList",
			`pCheckList1=List,1,9,10,10,150,80,One,Two`,
			&CheckList{Items: []string{"One", "Two"}},
		},
		{
			"WebLabel",
			`pWebLabel1=Site,1,10,10,10,100,18,https://example.org`,
			&WebLabel{URL: "https://example.org"},
		},
		{
			"RadioButton",
			`pRadioButton1=Pick,1,11,10,10,120,20,False`,
			&RadioButton{},
		},
		{
			"BevelEmpty",
			`pBevel1=Frame,1,12,10,10,200,100`,
			&Bevel{},
		},
		{
			"BevelCaption",
			`pBevel1=Frame,1,12,10,10,200,100,10,Normal`,
			&Bevel{FontSize: 10, FontWeight: WeightNormal},
		},
		{
			"FileBox",
			`pFileBox1=C:\Windows,1,13,10,10,200,20,file,"Title=Pick a file"`,
			&FileBox{IsFile: true, Title: "Pick a file"},
		},
		{
			"FileBoxDefault",
			`pFileBox1=C:\Windows,1,13,10,10,200,20`,
			&FileBox{},
		},
		{
			"RadioGroup",
			`pRadioGroup1=Group,1,14,10,10,150,60,A,B,C,2,_Sel_,True,__choose`,
			&RadioGroup{
				Tip:         Tip{Tooltip: "choose"},
				RunOptional: RunOptional{Section: "Sel", HideProgress: true},
				Items:       []string{"A", "B", "C"},
				Selected:    2,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := parseOne(t, tt.line)
			if diff := cmp.Diff(tt.want, c.Info); diff != "" {
				t.Errorf("info mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseLineFields(t *testing.T) {
	c := parseOne(t, `pTextBox1="Some text",0,0,10,20,200,21,value`)

	want := &Control{
		Key:     "pTextBox1",
		Text:    "Some text",
		Visible: false,
		Type:    TypeTextBox,
		Rect:    Rect{X: 10, Y: 20, Width: 200, Height: 21},
		Info:    &TextBox{Value: "value"},
		Raw:     `pTextBox1="Some text",0,0,10,20,200,21,value`,
		Section: "Interface",
		Line:    1,
	}

	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("control mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLineErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want error
	}{
		{"TooFewFields", `pA=Text,1,0,10,10,200`, ErrTooFewFields},
		{"Rect", `pA=Text,1,0,x,10,200,21,v`, ErrInvalidRect},
		{"NumberBoxNotInt", `pA=N,1,2,10,10,40,22,three,0,100,1`, ErrInvalidInfo},
		{"CheckBoxNotBool", `pA=C,1,3,10,10,200,18,maybe`, ErrInvalidInfo},
		{"ComboBoxEmpty", `pA=C,1,4,10,10,150,21`, ErrInvalidInfo},
		{"TextLabelWeight", `pA=L,1,1,10,10,230,18,8,Heavy`, ErrInvalidInfo},
		{"FileBoxMode", `pA=F,1,13,10,10,200,20,folder`, ErrInvalidInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseLine([]string{tt.line}, 0, "Interface", 1)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParseLineContinuation(t *testing.T) {
	lines := []string{
		`pComboBox1=A,1,4,10,10,150,21,A,\`,
		`B,C`,
	}

	c, n, err := ParseLine(lines, 0, "Interface", 5)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 5, c.Line)
	assert.Equal(t, []string{"A", "B", "C"}, c.Info.(*ComboBox).Items)
}

func TestParse(t *testing.T) {
	lines := []string{
		`// controls`,
		`pTextBox1=Text,1,0,10,10,200,21,one`,
		`pUnknown=Text,1,7,10,10,200,21`,
		`ptextbox1=Text,1,0,10,40,200,21,two`,
		`pBroken=Text,1,0`,
		``,
		`pCheckBox1=Check,1,3,10,70,200,18,True`,
	}

	var d diag.Buffer

	ctrls := Parse(lines, "Interface", 10, &d)
	require.Len(t, ctrls, 2)
	assert.Equal(t, "pTextBox1", ctrls[0].Key)
	assert.Equal(t, "pCheckBox1", ctrls[1].Key)
	assert.Equal(t, 16, ctrls[1].Line)

	entries := d.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, diag.SeverityInfo, entries[0].Severity)
	assert.Equal(t, 12, entries[0].Line)
	assert.Equal(t, diag.SeverityError, entries[1].Severity)
	assert.Contains(t, entries[1].Message, "ptextbox1")
	assert.Equal(t, diag.SeverityError, entries[2].Severity)
	assert.Equal(t, 14, entries[2].Line)
}

func TestForgeRoundTrip(t *testing.T) {
	lines := []string{
		`pTextBox1="Some text",1,0,10,10,200,21,value,"__a tip"`,
		`pTextLabel1=Label,1,1,10,10,230,18,8,Bold`,
		`pNumberBox1=NumberBox,1,2,10,10,40,22,3,0,100,1`,
		`pCheckBox1=CheckBox,0,3,10,10,200,18,True,_Run_,False`,
		`pComboBox1=B,1,4,10,10,150,21,A,B,"C D"`,
		`pButton1=Go,1,8,10,10,80,25,Process,0,True`,
		`pBevel1=Frame,1,12,10,10,200,100`,
		`pFileBox1=C:\Windows,1,13,10,10,200,20,dir,"Title=Pick one"`,
		`pRadioGroup1=Group,1,14,10,10,150,60,A,B,1`,
	}

	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			c := parseOne(t, line)
			assert.Equal(t, line, c.Forge(true))

			again := parseOne(t, c.Forge(true))
			if diff := cmp.Diff(c.Info, again.Info); diff != "" {
				t.Errorf("reparse mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestForgeWithoutKey(t *testing.T) {
	c := parseOne(t, `pTextBox1=Text,1,0,10,10,200,21,value`)
	assert.Equal(t, "Text,1,0,10,10,200,21,value", c.Forge(false))
}

func TestSetValue(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		value string
		want  string
		err   error
	}{
		{"TextBox", `pA=T,1,0,10,10,200,21,old`, "new", "new", nil},
		{"NumberBox", `pA=N,1,2,10,10,40,22,3,0,100,1`, "42", "42", nil},
		{"NumberBoxRange", `pA=N,1,2,10,10,40,22,3,0,100,1`, "101", "3", ErrInvalidValue},
		{"NumberBoxInt", `pA=N,1,2,10,10,40,22,3,0,100,1`, "4.5", "3", ErrInvalidValue},
		{"CheckBox", `pA=C,1,3,10,10,200,18,True`, "false", "False", nil},
		{"CheckBoxBool", `pA=C,1,3,10,10,200,18,True`, "yes", "True", ErrInvalidValue},
		{"ComboBox", `pA=A,1,4,10,10,150,21,Alpha,Beta`, "beta", "Beta", nil},
		{"ComboBoxItem", `pA=A,1,4,10,10,150,21,Alpha,Beta`, "Gamma", "A", ErrInvalidValue},
		{"RadioGroup", `pA=G,1,14,10,10,150,60,A,B,0`, "1", "1", nil},
		{"RadioGroupIndex", `pA=G,1,14,10,10,150,60,A,B,0`, "2", "0", ErrInvalidValue},
		{"Image", `pA=I,1,5,10,10,100,100`, "x", "", ErrNoValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := parseOne(t, tt.line)

			err := c.SetValue(tt.value)
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected error %v, got %v", tt.err, err)
			}

			got, _ := c.Value()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseType(t *testing.T) {
	assert.Equal(t, TypeRadioGroup, ParseType(" 14 "))
	assert.Equal(t, TypeNone, ParseType("7"))
	assert.Equal(t, TypeNone, ParseType("x"))
	assert.Equal(t, "Type(7)", Type(7).String())
}

func TestTypeText(t *testing.T) {
	for _, want := range []Type{TypeNone, TypeTextBox, TypeButton, TypeRadioGroup} {
		text, err := want.MarshalText()
		require.NoError(t, err)

		var got Type
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, want, got)
	}

	got := TypeBevel
	require.ErrorIs(t, got.UnmarshalText([]byte("Slider")), ErrInvalidType)
	assert.Equal(t, TypeBevel, got)
}
