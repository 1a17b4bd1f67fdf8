package command

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies the command named by the first argument of a code line.
type Kind int

// Kinds are grouped by hundreds like the WinBuilder command reference.
// Kinds ending in Op are never parsed; [Optimize] synthesizes them.
const (
	KindNone Kind = iota
	KindError
	KindComment
)

const (
	KindFileCopy Kind = 100 + iota
	KindFileDelete
	KindFileRename
	KindFileMove
	KindFileCreateBlank
	KindFileSize
	KindFileVersion
	KindDirCopy
	KindDirDelete
	KindDirMove
	KindDirMake
	KindDirSize
)

const (
	KindRegHiveLoad Kind = 200 + iota
	KindRegHiveUnload
	KindRegRead
	KindRegWrite
	KindRegDelete
	KindRegMulti
	KindRegImport
	KindRegExport
)

const (
	KindTXTAddLine Kind = 300 + iota
	KindTXTDelLine
	KindTXTReplace
	KindTXTDelSpaces
	KindTXTDelEmptyLines
)

const (
	KindTXTAddLineOp Kind = 380 + iota
	KindTXTDelLineOp
	KindTXTReplaceOp
)

const (
	KindIniWrite Kind = 400 + iota
	KindIniRead
	KindIniDelete
	KindIniReadSection
	KindIniAddSection
	KindIniDeleteSection
	KindIniWriteTextLine
	KindIniMerge
)

const (
	KindIniWriteOp Kind = 480 + iota
	KindIniReadOp
	KindIniDeleteOp
	KindIniReadSectionOp
	KindIniAddSectionOp
	KindIniDeleteSectionOp
	KindIniWriteTextLineOp
)

const (
	KindExtractFile Kind = 900 + iota
	KindExtractAndRun
	KindExtractAllFiles
	KindEncode
)

const (
	KindMessage Kind = 1100 + iota
	KindEcho
	KindEchoFile
	KindUserInput
	KindAddInterface
	KindReadInterface
	KindWriteInterface
	KindVisible
)

const (
	KindReadInterfaceOp Kind = 1180 + iota
	KindWriteInterfaceOp
	KindVisibleOp
)

const (
	KindStrFormat Kind = 1200 + iota
	KindMath
	KindList
)

const (
	KindSystem Kind = 1300 + iota
	KindShellExecute
	KindShellExecuteEx
	KindShellExecuteDelete
)

const (
	KindRun Kind = 1400 + iota
	KindExec
	KindLoop
	KindLoopLetter
	KindRunEx
	KindLoopEx
	KindLoopLetterEx
	KindIf
	KindElse
	KindBegin
	KindEnd
)

const (
	KindSet Kind = 1500 + iota
	KindSetMacro
	KindAddVariables
	KindExit
	KindHalt
	KindWait
	KindBeep
	KindGetParam
	KindReturn
)

// KindMacro is assigned to every line whose command name is not built in.
// Such lines are resolved against the macro tables at run time.
const KindMacro Kind = 1600

var kindNames = map[Kind]string{
	KindNone:    "None",
	KindError:   "Error",
	KindComment: "Comment",

	KindFileCopy:        "FileCopy",
	KindFileDelete:      "FileDelete",
	KindFileRename:      "FileRename",
	KindFileMove:        "FileMove",
	KindFileCreateBlank: "FileCreateBlank",
	KindFileSize:        "FileSize",
	KindFileVersion:     "FileVersion",
	KindDirCopy:         "DirCopy",
	KindDirDelete:       "DirDelete",
	KindDirMove:         "DirMove",
	KindDirMake:         "DirMake",
	KindDirSize:         "DirSize",

	KindRegHiveLoad:   "RegHiveLoad",
	KindRegHiveUnload: "RegHiveUnload",
	KindRegRead:       "RegRead",
	KindRegWrite:      "RegWrite",
	KindRegDelete:     "RegDelete",
	KindRegMulti:      "RegMulti",
	KindRegImport:     "RegImport",
	KindRegExport:     "RegExport",

	KindTXTAddLine:       "TXTAddLine",
	KindTXTDelLine:       "TXTDelLine",
	KindTXTReplace:       "TXTReplace",
	KindTXTDelSpaces:     "TXTDelSpaces",
	KindTXTDelEmptyLines: "TXTDelEmptyLines",
	KindTXTAddLineOp:     "TXTAddLineOp",
	KindTXTDelLineOp:     "TXTDelLineOp",
	KindTXTReplaceOp:     "TXTReplaceOp",

	KindIniWrite:           "IniWrite",
	KindIniRead:            "IniRead",
	KindIniDelete:          "IniDelete",
	KindIniReadSection:     "IniReadSection",
	KindIniAddSection:      "IniAddSection",
	KindIniDeleteSection:   "IniDeleteSection",
	KindIniWriteTextLine:   "IniWriteTextLine",
	KindIniMerge:           "IniMerge",
	KindIniWriteOp:         "IniWriteOp",
	KindIniReadOp:          "IniReadOp",
	KindIniDeleteOp:        "IniDeleteOp",
	KindIniReadSectionOp:   "IniReadSectionOp",
	KindIniAddSectionOp:    "IniAddSectionOp",
	KindIniDeleteSectionOp: "IniDeleteSectionOp",
	KindIniWriteTextLineOp: "IniWriteTextLineOp",

	KindExtractFile:     "ExtractFile",
	KindExtractAndRun:   "ExtractAndRun",
	KindExtractAllFiles: "ExtractAllFiles",
	KindEncode:          "Encode",

	KindMessage:          "Message",
	KindEcho:             "Echo",
	KindEchoFile:         "EchoFile",
	KindUserInput:        "UserInput",
	KindAddInterface:     "AddInterface",
	KindReadInterface:    "ReadInterface",
	KindWriteInterface:   "WriteInterface",
	KindVisible:          "Visible",
	KindReadInterfaceOp:  "ReadInterfaceOp",
	KindWriteInterfaceOp: "WriteInterfaceOp",
	KindVisibleOp:        "VisibleOp",

	KindStrFormat: "StrFormat",
	KindMath:      "Math",
	KindList:      "List",

	KindSystem:             "System",
	KindShellExecute:       "ShellExecute",
	KindShellExecuteEx:     "ShellExecuteEx",
	KindShellExecuteDelete: "ShellExecuteDelete",

	KindRun:          "Run",
	KindExec:         "Exec",
	KindLoop:         "Loop",
	KindLoopLetter:   "LoopLetter",
	KindRunEx:        "RunEx",
	KindLoopEx:       "LoopEx",
	KindLoopLetterEx: "LoopLetterEx",
	KindIf:           "If",
	KindElse:         "Else",
	KindBegin:        "Begin",
	KindEnd:          "End",

	KindSet:          "Set",
	KindSetMacro:     "SetMacro",
	KindAddVariables: "AddVariables",
	KindExit:         "Exit",
	KindHalt:         "Halt",
	KindWait:         "Wait",
	KindBeep:         "Beep",
	KindGetParam:     "GetParam",
	KindReturn:       "Return",

	KindMacro: "Macro",
}

// kindByName maps lower-case names of parseable kinds to their Kind.
var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))

	for k, name := range kindNames {
		if k.Synthetic() || k == KindNone || k == KindError ||
			k == KindComment || k == KindMacro {
			continue
		}

		m[strings.ToLower(name)] = k
	}

	return m
}()

// Names returns the names of every built-in command, sorted.
func Names() []string {
	names := make([]string, 0, len(kindByName))
	for _, k := range kindByName {
		names = append(names, k.String())
	}

	slices.Sort(names)

	return names
}

// String returns the command name of k.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Valid reports whether k is a defined kind.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]

	return ok
}

// Synthetic reports whether k is only produced by [Optimize].
func (k Kind) Synthetic() bool {
	return k%100 >= 80 && k.Valid()
}

// LookupKind returns the kind of a built-in command name, ignoring case.
// Unknown names report false.
func LookupKind(name string) (Kind, bool) {
	k, ok := kindByName[strings.ToLower(strings.TrimSpace(name))]

	return k, ok
}

// MarshalText implements [encoding.TextMarshaler].
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements [encoding.TextUnmarshaler]. It accepts the name
// of any kind, including those [LookupKind] does not parse.
func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if strings.EqualFold(name, string(text)) {
			*k = kind

			return nil
		}
	}

	return ErrInvalidEnum.With(slog.String("kind", string(text)))
}
