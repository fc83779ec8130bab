package cpu

import (
	"fmt"
	"maps"
	"strings"
)

// MACRO_DEPTH limits nested macro expansion.
const MACRO_DEPTH = 16

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the first line of the body.
	Args   []string // Argument names, bound as equates during expansion.
	Lines  []string // Body text, comments stripped.
}

// beginMacro starts recording '.macro NAME ARG...'.
func (asm *Assembler) beginMacro(words []string, lineno int) (err error) {
	if asm.recording != nil {
		err = ErrMacroNesting
		return
	}
	if len(words) == 0 {
		err = ErrMacroSyntax
		return
	}

	name := words[0]
	if _, ok := asm.Macro[name]; ok {
		err = ErrMacroDuplicate
		return
	}

	asm.recording = &Macro{
		LineNo: lineno + 1,
		Args:   words[1:],
	}
	asm.Macro[name] = asm.recording

	return
}

// endMacro finishes the macro being recorded.
func (asm *Assembler) endMacro() (err error) {
	if asm.recording == nil {
		err = ErrMacroLonelyEndm
		return
	}

	asm.recording = nil
	return
}

// expandMacro assembles the body of macro with its arguments bound.
// Equates defined by the body do not outlive the expansion.
func (asm *Assembler) expandMacro(name string, macro *Macro, args []string, lineno int) (err error) {
	if len(args) != len(macro.Args) {
		err = ErrMacroSyntax
		return
	}
	if asm.depth >= MACRO_DEPTH {
		err = ErrMacroDepth
		return
	}

	saved := maps.Clone(asm.Equate)
	asm.depth++
	defer func() {
		asm.Equate = saved
		asm.depth--
	}()

	for n, arg := range macro.Args {
		asm.Equate[arg] = args[n]
	}

	// '@' is unique per expansion.
	prefix := fmt.Sprintf("%v_%v_", name, lineno)

	for n, text := range macro.Lines {
		line := macro.LineNo + n
		text = strings.ReplaceAll(text, "@", prefix)

		err = asm.assembleLine(text, line)
		if err != nil {
			err = &ErrMacro{Macro: name, Line: line, Err: err}
			return
		}
	}

	return
}
