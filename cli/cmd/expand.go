package cmd

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/ardnew/bakery/escape"
)

// Expand substitutes the project variables referenced by text.
type Expand struct {
	Text   []string `arg:"" help:"Text to expand; each argument is expanded separately." optional:""`
	Script string   `       help:"Load the variables of this script first."             short:"s"`
	Input  []string `       help:"Also expand each line of these files (\"-\" is stdin)." short:"i"`
	Raw    bool     `       help:"Keep escape sequences and placeholders as written."   short:"r"`
}

type expansion struct {
	Text  string `json:"text"  yaml:"text"`
	Value string `json:"value" yaml:"value"`
}

// Run executes the expand command.
func (c *Expand) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	texts := c.Text

	if in := openInputs(c.Input, os.Stdin); in != nil {
		scan := bufio.NewScanner(in)
		for scan.Scan() {
			texts = append(texts, scan.Text())
		}

		if err := scan.Err(); err != nil {
			return err
		}
	}

	if len(texts) == 0 {
		return ErrNoInput
	}

	e, err := loadEnv(ctx)
	if err != nil {
		return err
	}

	defer e.Close()

	if c.Script != "" {
		doc, err := e.document(ctx, c.Script)
		if err != nil {
			return err
		}

		if err := e.switchDocument(doc); err != nil {
			return err
		}

		defer e.report(ctx, doc)
	} else {
		defer e.report(ctx, nil)
	}

	out := make([]expansion, len(texts))
	for i, text := range texts {
		value := e.vars.Expand(text)
		if !c.Raw {
			value = escape.UnescapePercent(escape.Unescape(value))
		}

		out[i] = expansion{Text: text, Value: value}
	}

	return render(ctx, outputFrom(ctx), e.opts.Format, out, func(w io.Writer) error {
		for _, x := range out {
			if _, err := io.WriteString(w, x.Value+"\n"); err != nil {
				return err
			}
		}

		return nil
	})
}
