package bersim

import "errors"

// ErrConfiguration is wrapped by every error caused by an unusable configuration:
// sample counts that do not divide evenly, empty or mismatched bit sequences,
// unknown scheme names and so on.  These are caller mistakes and never worth retrying.
var ErrConfiguration = errors.New("configuration error")

// ErrNumericDomain is wrapped when a numeric argument is outside its domain,
// e.g. a negative noise standard deviation.
var ErrNumericDomain = errors.New("numeric domain error")
