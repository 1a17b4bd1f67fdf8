package command

import (
	"log/slog"
	"strings"

	"github.com/ardnew/bakery/log"
)

// batchRule describes a kind that [Optimize] may merge.
type batchRule struct {
	// op is the kind of the synthesized command.
	op Kind
	// fits reports whether next may join a batch started by first.
	fits func(first, next Command) bool
}

// sameArgs returns a rule predicate requiring the arguments at idx to be
// equal, ignoring case.
func sameArgs(idx ...int) func(first, next Command) bool {
	return func(first, next Command) bool {
		for _, i := range idx {
			if !strings.EqualFold(first.Arg(i), next.Arg(i)) {
				return false
			}
		}

		return true
	}
}

func always(Command, Command) bool { return true }

var batchRules = map[Kind]batchRule{
	// TXTAddLine,<File>,<Line>,<Mode>
	KindTXTAddLine: {KindTXTAddLineOp, sameArgs(0, 2)},
	KindTXTDelLine: {KindTXTDelLineOp, sameArgs(0)},
	KindTXTReplace: {KindTXTReplaceOp, sameArgs(0)},

	KindIniWrite:         {KindIniWriteOp, sameArgs(0)},
	KindIniRead:          {KindIniReadOp, sameArgs(0)},
	KindIniDelete:        {KindIniDeleteOp, sameArgs(0)},
	KindIniReadSection:   {KindIniReadSectionOp, sameArgs(0)},
	KindIniAddSection:    {KindIniAddSectionOp, sameArgs(0)},
	KindIniDeleteSection: {KindIniDeleteSectionOp, sameArgs(0)},
	KindIniWriteTextLine: {KindIniWriteTextLineOp, sameArgs(0)},

	// ReadInterface,<Element>,<ScriptFile>,<Section>,<Key>,<DestVar>
	KindReadInterface:  {KindReadInterfaceOp, sameArgs(1, 2)},
	KindWriteInterface: {KindWriteInterfaceOp, sameArgs(1, 2)},

	KindVisible: {KindVisibleOp, always},
}

// Batchable reports whether commands of kind k can be merged by [Optimize].
func Batchable(k Kind) bool {
	_, ok := batchRules[k]

	return ok
}

// Optimize merges consecutive compatible commands into batched commands.
//
// A run of two or more commands of the same batchable kind that pass the
// kind's compatibility rule becomes one command of the corresponding Op
// kind whose Batch holds the run. Comments inside a run are dropped. A run
// of one is kept unchanged, and the relative order of all other commands
// is preserved. Blocks linked under If and Else are optimized recursively.
func Optimize(cmds []Command) []Command {
	out := make([]Command, 0, len(cmds))

	var (
		pending []Command
		rule    batchRule
	)

	flush := func() {
		switch len(pending) {
		case 0:
		case 1:
			out = append(out, pending[0])
		default:
			out = append(out, merge(rule.op, pending))
		}

		pending = nil
	}

	for _, cmd := range cmds {
		if len(pending) > 0 {
			first := pending[0]

			switch {
			case cmd.Kind == first.Kind && rule.fits(first, cmd):
				pending = append(pending, cmd)

				continue

			case cmd.Kind == KindComment:
				continue
			}

			flush()
		}

		if r, ok := batchRules[cmd.Kind]; ok {
			rule = r
			pending = []Command{cmd}

			continue
		}

		out = append(out, cmd)
	}

	flush()

	for i := range out {
		if len(out[i].Link) > 0 {
			out[i].Link = Optimize(out[i].Link)
		}
	}

	if len(out) < len(cmds) {
		log.Trace("optimized commands",
			slog.Int("before", len(cmds)),
			slog.Int("after", len(out)))
	}

	return out
}

func merge(op Kind, members []Command) Command {
	raws := make([]string, len(members))
	for i, m := range members {
		raws[i] = m.Raw
	}

	return Command{
		Kind:  op,
		Name:  op.String(),
		Raw:   strings.Join(raws, "\n"),
		Addr:  members[0].Addr,
		Line:  members[0].Line,
		Batch: members,
	}
}
