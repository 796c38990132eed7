// Package client holds the typed SIPAC resource clients. Each client
// fixes a URL path and the constant query discriminators its resource
// family requires, and delegates dispatch to the throttled transport.
// No business logic lives here beyond path and parameter composition.
package client

import (
	"time"
)

// dateParam renders a time the way the remote filters expect it.
func dateParam(t time.Time) string {
	return t.Format("02/01/2006")
}
