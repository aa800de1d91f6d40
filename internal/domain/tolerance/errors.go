package tolerance

import "errors"

var (
	ErrPolicyNotFound = errors.New("tolerance policy not found")
)
