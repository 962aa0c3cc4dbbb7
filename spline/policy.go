package spline

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// BoundaryPolicy selects the two equations closing the moment system at the
// outermost knots.
type BoundaryPolicy int

const (
	NotAKnot BoundaryPolicy = iota
	Periodic
	Clamped
	Natural
)

var policyNames = map[BoundaryPolicy]string{
	NotAKnot: "not-a-knot",
	Periodic: "periodic",
	Clamped:  "clamped",
	Natural:  "natural",
}

func BoundaryPolicyNames() []string {
	return []string{
		policyNames[NotAKnot],
		policyNames[Periodic],
		policyNames[Clamped],
		policyNames[Natural],
	}
}

func ParseBoundaryPolicy(name string) (BoundaryPolicy, error) {
	for policy, policyName := range policyNames {
		if policyName == name {
			return policy, nil
		}
	}

	return NotAKnot, fmt.Errorf("%w: %q", ErrUnknownBoundaryPolicy, name)
}

func (p BoundaryPolicy) Valid() bool {
	_, ok := policyNames[p]

	return ok
}

func (p BoundaryPolicy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}

	return fmt.Sprintf("BoundaryPolicy(%d)", int(p))
}

func (p BoundaryPolicy) MarshalYAML() (interface{}, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBoundaryPolicy, int(p))
	}

	return p.String(), nil
}

func (p *BoundaryPolicy) UnmarshalYAML(value *yaml.Node) error {
	var name string

	if err := value.Decode(&name); err != nil {
		return err
	}

	policy, err := ParseBoundaryPolicy(name)
	if err != nil {
		return err
	}

	*p = policy

	return nil
}
