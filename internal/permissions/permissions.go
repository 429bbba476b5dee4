package permissions

import (
	"encoding/json"
	"fmt"
	"sort"
)

type Resource string

type Action string

const (
	Players   Resource = "players"
	Scouts    Resource = "scouts"
	Clubs     Resource = "clubs"
	Reports   Resource = "reports"
	Transfers Resource = "transfers"
	Notes     Resource = "notes"
	Admins    Resource = "admins"
	Logs      Resource = "logs"
	Settings  Resource = "settings"
)

const (
	View    Action = "view"
	Create  Action = "create"
	Edit    Action = "edit"
	Delete  Action = "delete"
	Approve Action = "approve"
	Export  Action = "export"
)

// Resources lists every guarded resource in display order.
var Resources = []Resource{Players, Scouts, Clubs, Reports, Transfers, Notes, Admins, Logs, Settings}

// Actions lists every known action in display order.
var Actions = []Action{View, Create, Edit, Delete, Approve, Export}

// Set maps a resource to the actions allowed on it.
type Set map[Resource][]Action

func validAction(a Action) bool {
	for _, known := range Actions {
		if known == a {
			return true
		}
	}
	return false
}

// Parse decodes a JSON permission set. Unknown actions are dropped and
// duplicate actions collapsed. Empty input yields an empty set.
func Parse(raw []byte) (Set, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return Set{}, nil
	}
	var decoded map[string][]string
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("invalid permission set: %w", err)
	}
	return FromMap(decoded), nil
}

// FromMap builds a Set from plain strings, e.g. submitted form values.
func FromMap(m map[string][]string) Set {
	s := make(Set, len(m))
	for res, actions := range m {
		for _, a := range actions {
			s.Grant(Resource(res), Action(a))
		}
	}
	return s
}

// All returns a set granting every action on every resource.
func All() Set {
	s := make(Set, len(Resources))
	for _, r := range Resources {
		s[r] = append([]Action(nil), Actions...)
	}
	return s
}

func (s Set) Can(r Resource, a Action) bool {
	for _, allowed := range s[r] {
		if allowed == a {
			return true
		}
	}
	return false
}

// Grant adds an action; unknown or duplicate actions are ignored.
func (s Set) Grant(r Resource, a Action) {
	if !validAction(a) || s.Can(r, a) {
		return
	}
	s[r] = append(s[r], a)
}

func (s Set) Empty() bool {
	for _, actions := range s {
		if len(actions) > 0 {
			return false
		}
	}
	return true
}

// Marshal encodes the set with sorted actions so stored JSON is stable.
func (s Set) Marshal() ([]byte, error) {
	out := make(map[string][]string, len(s))
	for r, actions := range s {
		if len(actions) == 0 {
			continue
		}
		names := make([]string, len(actions))
		for i, a := range actions {
			names[i] = string(a)
		}
		sort.Strings(names)
		out[string(r)] = names
	}
	return json.Marshal(out)
}

// Has reports whether the string form of resource/action is allowed.
// Templates use it to hide links and buttons.
func (s Set) Has(resource, action string) bool {
	return s.Can(Resource(resource), Action(action))
}

// Keys lists the set as "resource:action" strings in display order.
func (s Set) Keys() []string {
	var keys []string
	for _, r := range Resources {
		for _, a := range Actions {
			if s.Can(r, a) {
				keys = append(keys, string(r)+":"+string(a))
			}
		}
	}
	return keys
}
