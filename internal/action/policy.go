package action

import "ndr-srv/internal/model"

// requiresApproval is the built-in classification of action kinds.
var requiresApproval = map[model.ActionKind]bool{
	model.ActionReattempt: false,
	model.ActionEscalate:  false,
	model.ActionRTO:       true,
}

// Policy decides which kinds wait for a human decision.
type Policy struct {
	extra map[model.ActionKind]bool
}

// NewPolicy adds approval to the given kinds. Kinds that already require approval keep requiring it.
func NewPolicy(extra ...model.ActionKind) Policy {
	p := Policy{extra: map[model.ActionKind]bool{}}
	for _, k := range extra {
		if k.IsValid() {
			p.extra[k] = true
		}
	}
	return p
}

func (p Policy) RequiresApproval(k model.ActionKind) bool {
	return requiresApproval[k] || p.extra[k]
}
