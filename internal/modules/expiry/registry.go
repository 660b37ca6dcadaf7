package expiry

import (
	"fmt"
	"sort"
)

// CalendarKey names one holiday calendar a contract consults, matching the
// (exchange, product) lookup the calendar collaborator exposes. Product may
// be empty for an exchange-wide calendar. Which calendars apply is a
// per-rule choice: ostensibly similar products consult different sources in
// practice, so the engine never unifies them.
type CalendarKey struct {
	Exchange string
	Product  string
}

// Registration binds one contract identifier to its rule and the holiday
// calendars the rule evaluates against. A registration with no calendar
// keys evaluates against weekends (and any rule-level ad hoc dates) only.
type Registration struct {
	ID        ContractID
	Rule      Rule
	Calendars []CalendarKey
}

// Registry is the immutable mapping from contract identifier to expiry
// rule. It is populated once at startup and read concurrently thereafter
// without locking; nothing mutates the backing map after construction.
type Registry struct {
	rules map[ContractID]Registration
}

// NewRegistry builds a registry from a registration list. Registering the
// same identifier twice is a configuration error, as is a registration
// without a rule.
func NewRegistry(regs []Registration) (*Registry, error) {
	rules := make(map[ContractID]Registration, len(regs))
	for _, reg := range regs {
		if reg.Rule == nil {
			return nil, fmt.Errorf("expiry: registration %s has no rule", reg.ID)
		}
		if _, dup := rules[reg.ID]; dup {
			return nil, fmt.Errorf("expiry: duplicate registration for %s", reg.ID)
		}
		rules[reg.ID] = reg
	}
	return &Registry{rules: rules}, nil
}

// Resolve returns the registration for an identifier. Unregistered
// identifiers fail with ErrUnsupportedContract; there is no default rule.
func (r *Registry) Resolve(id ContractID) (Registration, error) {
	reg, ok := r.rules[id]
	if !ok {
		return Registration{}, fmt.Errorf("%w: %s", ErrUnsupportedContract, id)
	}
	return reg, nil
}

// Len returns the number of registered contracts.
func (r *Registry) Len() int { return len(r.rules) }

// Contracts returns every registered identifier, ordered by market then
// product, for the listing endpoint.
func (r *Registry) Contracts() []ContractID {
	out := make([]ContractID, 0, len(r.rules))
	for id := range r.rules {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Market != out[j].Market {
			return out[i].Market < out[j].Market
		}
		if out[i].Product != out[j].Product {
			return out[i].Product < out[j].Product
		}
		return out[i].Type < out[j].Type
	})
	return out
}
