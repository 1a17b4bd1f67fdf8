package escape

import "testing"

func TestExpandParams(t *testing.T) {
	args := &Params{Args: []string{"one", "two"}, Return: "ret"}
	loop := &Params{Args: []string{"x"}, Loop: true, Counter: "7"}
	strict := &Params{Args: []string{"x"}, Strict: true}

	tests := []struct {
		name string
		text string
		p    *Params
		want string
	}{
		{"positional", "#1-#2", args, "one-two"},
		{"unbound empty", "[#3]", args, "[]"},
		{"unbound strict", "[#3]", strict, "[#3]"},
		{"multi digit", "#10", args, ""},
		{"count", "#a", args, "2"},
		{"return", "#r", args, "ret"},
		{"counter inactive", "#c", args, "#c"},
		{"counter active", "#c/#C", loop, "7/7"},
		{"escaped hash", "##1", args, "##1"},
		{"escape sequence", "#$c", args, "#$c"},
		{"trailing hash", "a#", args, "a#"},
		{"nil params", "#1#a", nil, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandParams(tt.text, tt.p); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
