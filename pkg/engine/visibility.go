package engine

import (
	"github.com/goliatone/go-formrules/pkg/model"
	"github.com/goliatone/go-formrules/pkg/rules"
)

// Visible returns the ids of the fields currently shown, starting from schema
// order. Every matching hide_field rule is applied before any show_field rule;
// reordering these phases changes which rule wins on a shared target.
func Visible(fields []model.Field, set []rules.Rule, data model.FormData) []string {
	known := make(map[string]struct{}, len(fields))
	visible := newOrderedSet(len(fields))
	for _, field := range fields {
		known[field.ID] = struct{}{}
		visible.add(field.ID)
	}

	for _, rule := range rules.ByAction(set, rules.ActionHideField) {
		if rule.TargetID == "" || !EvaluateCondition(rule, data) {
			continue
		}
		visible.remove(rule.TargetID)
	}

	for _, rule := range rules.ByAction(set, rules.ActionShowField) {
		if rule.TargetID == "" || !EvaluateCondition(rule, data) {
			continue
		}
		if _, ok := known[rule.TargetID]; !ok {
			continue
		}
		visible.add(rule.TargetID)
	}

	return visible.items()
}

type orderedSet struct {
	order   []string
	members map[string]bool
}

func newOrderedSet(capacity int) *orderedSet {
	return &orderedSet{
		order:   make([]string, 0, capacity),
		members: make(map[string]bool, capacity),
	}
}

func (s *orderedSet) add(id string) {
	if s.members[id] {
		return
	}
	s.members[id] = true
	s.order = append(s.order, id)
}

func (s *orderedSet) remove(id string) {
	if !s.members[id] {
		return
	}
	delete(s.members, id)
	for idx, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:idx], s.order[idx+1:]...)
			return
		}
	}
}

func (s *orderedSet) items() []string {
	return append([]string{}, s.order...)
}
