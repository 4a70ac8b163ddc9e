package analyzer

import (
	"strings"

	"github.com/mvp-joe/extract-method/internal/jsast"
	"github.com/mvp-joe/extract-method/internal/linemap"
)

// State is a step of the analysis lifecycle.
type State string

const (
	StateInitial            State = "initial"
	StateRangeAnalyzed      State = "range-analyzed"
	StateFeasibilityChecked State = "feasibility-checked"
	StateFeasible           State = "feasible"
	StateInfeasible         State = "infeasible"
)

// Severity of an Issue. Errors make a block infeasible; warnings only clear
// the recommendation.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// IssueCode identifies the kind of an Issue.
type IssueCode string

const (
	IssueNoStatements       IssueCode = "no-statements-in-range"
	IssueAmbiguousScope     IssueCode = "ambiguous-scope"
	IssueTooManyParameters  IssueCode = "too-many-parameters"
	IssueMultipleReturns    IssueCode = "multiple-return-candidates"
	IssueLabeledExitEscapes IssueCode = "labeled-exit-escapes"
	IssueContinueEscapes    IssueCode = "continue-escapes"
	IssueRangeCrossesBlock  IssueCode = "range-crosses-block"
)

type Issue struct {
	Code     IssueCode `json:"code"`
	Severity Severity  `json:"type"`
	Message  string    `json:"message"`
}

// ReasonUsedNotDefined marks a parameter read by the block and bound before it.
const ReasonUsedNotDefined = "used-not-defined"

type Parameter struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// ReturnKind says how the extracted function hands values back.
type ReturnKind string

const (
	ReturnNone      ReturnKind = "none"
	ReturnSingle    ReturnKind = "single"
	ReturnComposite ReturnKind = "composite"
)

// ReturnPlan lists the variables the block writes that later code reads.
type ReturnPlan struct {
	Kind  ReturnKind `json:"kind"`
	Names []string   `json:"names,omitempty"`
}

// Present reports whether the function returns anything.
func (p ReturnPlan) Present() bool {
	return p.Kind == ReturnSingle || p.Kind == ReturnComposite
}

func (p ReturnPlan) String() string {
	switch p.Kind {
	case ReturnSingle:
		return p.Names[0]
	case ReturnComposite:
		return "{ " + strings.Join(p.Names, ", ") + " }"
	}
	return "none"
}

// ControlFlow counts exit statements anywhere inside the block.
type ControlFlow struct {
	EarlyReturns int `json:"earlyReturns"`
	Breaks       int `json:"breaks"`
	Continues    int `json:"continues"`

	// EscapingBreaks counts unlabeled breaks whose loop or switch lies
	// outside the block. They are only valid once rewritten to return.
	EscapingBreaks int `json:"escapingBreaks"`
}

// Exits reports whether any exit statement was found.
func (c ControlFlow) Exits() bool {
	return c.EarlyReturns > 0 || c.Breaks > 0 || c.Continues > 0
}

// Report is the outcome of analyzing one range. It is built fresh by every
// call and never modified afterwards.
type Report struct {
	linemap.Info

	FilePath    string      `json:"filePath,omitempty"`
	Feasible    bool        `json:"feasible"`
	State       State       `json:"state"`
	Issues      []Issue     `json:"issues"`
	Parameters  []Parameter `json:"parameters"`
	ReturnPlan  ReturnPlan  `json:"returnPlan"`
	ControlFlow ControlFlow `json:"controlFlow"`
	Recommended bool        `json:"recommended"`
	Reason      string      `json:"reason"`

	tree       *jsast.Program
	statements []jsast.Node
	scope      jsast.Node
}

// Range returns the analyzed line range.
func (r *Report) Range() linemap.Range {
	return linemap.Range{Start: r.StartLine, End: r.EndLine}
}

// Tree returns the analyzed tree. It is shared and must not be modified.
func (r *Report) Tree() *jsast.Program { return r.tree }

// Statements returns the outermost statements selected for extraction, in
// source order.
func (r *Report) Statements() []jsast.Node {
	out := make([]jsast.Node, len(r.statements))
	copy(out, r.statements)
	return out
}

// ContainingScope returns the tightest node enclosing the range, or nil.
func (r *Report) ContainingScope() jsast.Node { return r.scope }

// Errors counts error-severity issues.
func (r *Report) Errors() int { return r.count(SeverityError) }

// Warnings counts warning-severity issues.
func (r *Report) Warnings() int { return r.count(SeverityWarning) }

func (r *Report) count(s Severity) int {
	n := 0
	for _, i := range r.Issues {
		if i.Severity == s {
			n++
		}
	}
	return n
}

// HasIssue reports whether an issue with code was recorded.
func (r *Report) HasIssue(code IssueCode) bool {
	for _, i := range r.Issues {
		if i.Code == code {
			return true
		}
	}
	return false
}
