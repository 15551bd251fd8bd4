package reward

import "errors"

// ErrZeroBaseline reports a distance normalization against a zero
// previous distance. It signals a task-configuration bug: tracked
// entities must start at nonzero separation. It is deliberately not
// swallowed into a 0 reward so that misconfigured tasks surface during
// development rather than training silently.
var ErrZeroBaseline = errors.New("zero baseline distance")
