package spec

import (
	"fmt"
	"io"

	"jamplate/internal/analysis"
	"jamplate/internal/compilation"
	"jamplate/internal/diagnostic"
	"jamplate/internal/instruction"
	"jamplate/internal/parsing"
	"jamplate/internal/region"
	"jamplate/internal/runtime"
)

// Event names the PRE_*/POST_* listener hooks spec.md §4.7 calls for,
// fired around each of the Unit's five pipeline actions plus Diagnostic.
type Event string

const (
	PreInitialize  Event = "PRE_INITIALIZE"
	PostInitialize Event = "POST_INITIALIZE"
	PreParse       Event = "PRE_PARSE"
	PostParse      Event = "POST_PARSE"
	PreAnalyze     Event = "PRE_ANALYZE"
	PostAnalyze    Event = "POST_ANALYZE"
	PreCompile     Event = "PRE_COMPILE"
	PostCompile    Event = "POST_COMPILE"
	PreExecute     Event = "PRE_EXECUTE"
	PostExecute    Event = "POST_EXECUTE"
	PreDiagnostic  Event = "PRE_DIAGNOSTIC"
	PostDiagnostic Event = "POST_DIAGNOSTIC"
)

// Unit holds one Environment and the root Spec (spec.md §4.7) and drives
// the five pipeline actions (initialize, parse, analyze, compile,
// execute) plus a diagnostic action, each iterated to a fixed point by
// the underlying parsing/analysis drivers. The Unit never panics: every
// action records failures to the Environment's diagnostic sink and
// returns a boolean success indicator instead (spec.md §7).
type Unit struct {
	Env       *compilation.Environment
	Root      *Spec
	listeners map[Event][]func(*compilation.Compilation)
}

// NewUnit returns a Unit over env and root.
func NewUnit(env *compilation.Environment, root *Spec) *Unit {
	return &Unit{Env: env, Root: root, listeners: make(map[Event][]func(*compilation.Compilation))}
}

// On registers fn to run whenever e fires.
func (u *Unit) On(e Event, fn func(*compilation.Compilation)) {
	u.listeners[e] = append(u.listeners[e], fn)
}

func (u *Unit) emit(e Event, comp *compilation.Compilation) {
	for _, fn := range u.listeners[e] {
		fn(comp)
	}
}

// Initialize wraps doc in a Compilation and runs the root Spec's
// effective Initializer, if any.
func (u *Unit) Initialize(doc region.Document) (*compilation.Compilation, bool) {
	u.emit(PreInitialize, nil)
	comp := u.Env.Initialize(doc)
	if init := EffectiveInitializer(u.Root); init != nil {
		init(comp)
	}
	u.emit(PostInitialize, comp)
	return comp, true
}

// Parse drives the root Spec's effective Parser to a fixed point.
func (u *Unit) Parse(comp *compilation.Compilation) bool {
	u.emit(PreParse, comp)
	parsing.Run(comp, u.Env, []parsing.Parser{EffectiveParser(u.Root)})
	u.emit(PostParse, comp)
	return !u.Env.Diagnostics().HasErrors()
}

// Analyze runs the root Spec's PreAnalyze processor, then drives the
// effective Analyzer to a fixed point.
func (u *Unit) Analyze(comp *compilation.Compilation) bool {
	u.emit(PreAnalyze, comp)
	if pre := EffectivePreAnalyze(u.Root); pre != nil {
		pre(comp)
	}
	analysis.Run(comp, []analysis.Analyzer{EffectiveAnalyzer(u.Root)})
	u.emit(PostAnalyze, comp)
	return !u.Env.Diagnostics().HasErrors()
}

// Compile runs the root Spec's PreCompile processor, then lowers comp's
// root Tree with the effective Compiler. A nil result is a CompileError.
func (u *Unit) Compile(comp *compilation.Compilation) (instruction.Instruction, bool) {
	u.emit(PreCompile, comp)
	if pre := EffectivePreCompile(u.Root); pre != nil {
		pre(comp)
	}
	root := EffectiveCompiler(u.Root)
	instr := root(root, comp, comp.Root())
	if instr == nil {
		u.Env.Diagnostics().Report(diagnostic.New(diagnostic.CompileError, "no compiler produced an instruction for the root tree", comp.Document(), comp.Root().Reference()))
	}
	u.emit(PostCompile, comp)
	return instr, instr != nil && !u.Env.Diagnostics().HasErrors()
}

// Execute runs instr against mem. Execution failures are global to this
// action (spec.md §7): the run stops at the first error.
func (u *Unit) Execute(comp *compilation.Compilation, instr instruction.Instruction, mem *runtime.Memory) bool {
	u.emit(PreExecute, comp)
	ctx := instruction.NewContext(comp.Document())
	err := instr.Exec(ctx, mem)
	if err != nil {
		ref := comp.Root().Reference()
		if src := instr.Source(); !src.IsZero() {
			ref = src.Reference()
		}
		u.Env.Diagnostics().Report(diagnostic.New(diagnostic.ExecutionError, err.Error(), comp.Document(), ref))
	}
	u.emit(PostExecute, comp)
	return err == nil
}

// allEvents lists every event AttachTrace subscribes to, in the order
// they fire across one full run.
var allEvents = []Event{
	PreInitialize, PostInitialize,
	PreParse, PostParse,
	PreAnalyze, PostAnalyze,
	PreCompile, PostCompile,
	PreExecute, PostExecute,
	PreDiagnostic, PostDiagnostic,
}

// AttachTrace registers a one-line-per-event listener on every Event u
// fires, writing to w. This is the default EventListener spec.md §4.7
// calls for: no structured-logging library appears anywhere in the
// retrieved corpus as a direct import, so plain fmt.Fprintf is the
// teacher-precedented choice, mirroring the teacher VM's DebugHook
// reporting instruction/call/return events to a pluggable sink.
func AttachTrace(u *Unit, w io.Writer) {
	for _, e := range allEvents {
		event := e
		u.On(event, func(comp *compilation.Compilation) {
			if comp == nil {
				fmt.Fprintf(w, "%s\n", event)
				return
			}
			fmt.Fprintf(w, "%s %s\n", event, comp.Document().Name())
		})
	}
}

// Diagnostic renders the Environment's sink to text — the sixth action,
// not a pipeline phase itself but exposed the same way (spec.md §4.7).
func (u *Unit) Diagnostic(comp *compilation.Compilation) string {
	u.emit(PreDiagnostic, comp)
	s := u.Env.Diagnostics().String()
	u.emit(PostDiagnostic, comp)
	return s
}
