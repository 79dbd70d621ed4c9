package discovery

import "errors"

// ErrDiscoveryTimeout is returned when no acceptable broadcast datagram
// arrives before the caller's deadline (§4.2, §7).
var ErrDiscoveryTimeout = errors.New("discovery: timed out waiting for simulator broadcast")
