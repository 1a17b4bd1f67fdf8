package script

import (
	"encoding"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type textEnum interface {
	encoding.TextMarshaler
	encoding.TextUnmarshaler
}

func TestEnumText(t *testing.T) {
	tests := []struct {
		name string
		in   textEnum
		out  func() textEnum
	}{
		{"kind", ptr(KindDirectory), func() textEnum { return new(Kind) }},
		{"selected", ptr(SelectedFalse), func() textEnum { return new(Selected) }},
		{"section type", ptr(TypeAttachEncode), func() textEnum { return new(SectionType) }},
		{"shape", ptr(ShapeLineList), func() textEnum { return new(Shape) }},
		{"state", ptr(StateConverted), func() textEnum { return new(State) }},
		{"encoding", ptr(EncodingUTF16BE), func() textEnum { return new(Encoding) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := tt.in.MarshalText()
			require.NoError(t, err)

			got := tt.out()
			require.NoError(t, got.UnmarshalText(text))
			assert.Equal(t, tt.in, got)

			require.ErrorIs(t, tt.out().UnmarshalText([]byte("bogus")), ErrInvalidEnum)
		})
	}
}

func TestEnumTextIgnoresCase(t *testing.T) {
	var st SectionType
	require.NoError(t, st.UnmarshalText([]byte("code")))
	assert.Equal(t, TypeCode, st)

	enc := EncodingANSI
	require.Error(t, enc.UnmarshalText([]byte("EBCDIC")))
	assert.Equal(t, EncodingANSI, enc, "unchanged on error")
}

func ptr[T any](v T) *T { return &v }
