package legalfilter

import "strings"

// Selection mirrors the filter payload the web client persists and sends
// with every turn. Field names and JSON tags must match the client form
// state exactly; the checkboxes behave as one exclusive tree, so at most
// one branch is meaningful at compile time.
type Selection struct {
	AllData bool `json:"allData"`

	AllFederal              bool     `json:"allFederal"`
	AllFederalCases         bool     `json:"allFederalCases"`
	AllFederalCasesSelected []string `json:"allFederalCasesSelected"`
	AllFederalRule          bool     `json:"allFederalRule"`
	AllFederalRuleSelected  []string `json:"allFederalRuleSelected"`
	AllFederalSR            bool     `json:"allFederalSR"`
	AllFederalSRR           bool     `json:"allFederalSRR"`
	AllFederalSRSelected    []string `json:"allFederalSRSelected"`

	AllState                 bool     `json:"allState"`
	AllStateCases            bool     `json:"allStateCases"`
	AllStateCasesSelected    []string `json:"allStateCasesSelected"`
	AllStateSRR              bool     `json:"allStateSRR"`
	AllStateSRRSelected      []string `json:"allStateSRRSelected"`
	AllStateSRRStateSelected []string `json:"allStateSRRStateSelected"`
}

// Branch is the resolved form of a Selection: exactly one branch of the
// filter tree, picked by fixed precedence. The boolean bag above exists
// only at the wire boundary.
type Branch int

const (
	BranchNone Branch = iota
	BranchAllData
	BranchFederal
	BranchFederalCases
	BranchFederalCasesSelected
	BranchFederalRule
	BranchFederalRuleSelected
	BranchFederalSR
	BranchFederalSRR
	BranchFederalSRSelected
	BranchState
	BranchStateCases
	BranchStateCasesSelected
	BranchStateSRR
	BranchStateSRRSelected
	BranchStateSRRStateSelected
)

// Predicate is the compiled retrieval filter for the knowledge-base index.
// Zero value means unconstrained. Main is an equality constraint, Types and
// States are membership constraints. Label is the human-readable scope name
// shown to the model and the user.
type Predicate struct {
	Main   string   `json:"main,omitempty"`
	Types  []string `json:"type,omitempty"`
	States []string `json:"state,omitempty"`
	Label  string   `json:"label,omitempty"`
}

// IsEmpty reports whether the predicate constrains nothing.
func (p Predicate) IsEmpty() bool {
	return p.Main == "" && len(p.Types) == 0 && len(p.States) == 0
}

// The "fedral" spelling is what the indexed metadata actually contains.
// Changing it here would silently match nothing.
const (
	mainFederal = "fedral"
	mainState   = "state"
)

// Resolve picks the active branch by fixed precedence: the all-data
// shortcut, then the federal branch and its sub-branches, then the state
// branch and its sub-branches. Siblings are mutually exclusive in a
// well-formed Selection, so the first match is the only match.
func (s *Selection) Resolve() Branch {
	switch {
	case s == nil:
		return BranchNone
	case s.AllData:
		return BranchAllData
	case s.AllFederal:
		return BranchFederal
	case s.AllFederalCases:
		return BranchFederalCases
	case len(s.AllFederalCasesSelected) > 0:
		return BranchFederalCasesSelected
	case s.AllFederalRule:
		return BranchFederalRule
	case len(s.AllFederalRuleSelected) > 0:
		return BranchFederalRuleSelected
	case s.AllFederalSR:
		return BranchFederalSR
	case s.AllFederalSRR:
		return BranchFederalSRR
	case len(s.AllFederalSRSelected) > 0:
		return BranchFederalSRSelected
	case s.AllState:
		return BranchState
	case s.AllStateCases:
		return BranchStateCases
	case len(s.AllStateCasesSelected) > 0:
		return BranchStateCasesSelected
	case s.AllStateSRR:
		return BranchStateSRR
	case len(s.AllStateSRRSelected) > 0:
		return BranchStateSRRSelected
	case len(s.AllStateSRRStateSelected) > 0:
		return BranchStateSRRStateSelected
	default:
		return BranchNone
	}
}

// Compile turns a Selection into a retrieval Predicate. It is pure and
// total: a nil or empty selection, or the all-data shortcut, compiles to
// the unconstrained predicate with an empty label.
//
// State names in the two case lists are underscore-normalized ("New York"
// -> "New_York") because that is how the case corpus was keyed at indexing
// time; the statute/regulation/rule lists were indexed with raw names.
// Labels always keep the raw names.
func Compile(s *Selection) Predicate {
	switch s.Resolve() {
	case BranchFederal:
		return Predicate{Main: mainFederal, Label: "Federal"}
	case BranchFederalCases:
		return Predicate{Main: mainFederal, Types: []string{"case"}, Label: "Federal"}
	case BranchFederalCasesSelected:
		return Predicate{
			Main:   mainFederal,
			Types:  []string{"case"},
			States: underscored(s.AllFederalCasesSelected),
			Label:  strings.Join(s.AllFederalCasesSelected, ", "),
		}
	case BranchFederalRule:
		return Predicate{Main: mainFederal, Types: []string{"regulation"}, Label: "Federal"}
	case BranchFederalRuleSelected:
		return Predicate{
			Main:   mainFederal,
			Types:  []string{"rule"},
			States: append([]string(nil), s.AllFederalRuleSelected...),
			Label:  strings.Join(s.AllFederalRuleSelected, ", "),
		}
	case BranchFederalSR:
		return Predicate{Main: mainFederal, Types: []string{"statute", "regulation"}, Label: "Federal"}
	case BranchFederalSRR:
		return Predicate{Main: mainFederal, Types: []string{"statute", "regulation", "rule"}, Label: "Federal"}
	case BranchFederalSRSelected:
		return Predicate{
			Main:   mainFederal,
			Types:  []string{"statute", "regulation"},
			States: append([]string(nil), s.AllFederalSRSelected...),
			Label:  strings.Join(s.AllFederalSRSelected, ", "),
		}
	case BranchState:
		return Predicate{Main: mainState, Label: "State"}
	case BranchStateCases:
		return Predicate{Main: mainState, Types: []string{"case"}, Label: "State"}
	case BranchStateCasesSelected:
		return Predicate{
			Main:   mainState,
			Types:  []string{"case"},
			States: underscored(s.AllStateCasesSelected),
			Label:  strings.Join(s.AllStateCasesSelected, ", "),
		}
	case BranchStateSRR:
		return Predicate{Main: mainState, Types: []string{"statute", "regulation", "rule"}, Label: "State"}
	case BranchStateSRRSelected:
		return Predicate{
			Main:   mainState,
			Types:  []string{"statute", "regulation", "rule"},
			States: append([]string(nil), s.AllStateSRRSelected...),
			Label:  strings.Join(s.AllStateSRRSelected, ", "),
		}
	case BranchStateSRRStateSelected:
		return Predicate{
			Main:   mainState,
			Types:  []string{"statute", "regulation", "rule"},
			States: append([]string(nil), s.AllStateSRRStateSelected...),
			Label:  strings.Join(s.AllStateSRRStateSelected, ", "),
		}
	default:
		return Predicate{}
	}
}

func underscored(states []string) []string {
	out := make([]string, len(states))
	for i, st := range states {
		// Only the first space, matching the keys the index was built with.
		out[i] = strings.Replace(st, " ", "_", 1)
	}
	return out
}
