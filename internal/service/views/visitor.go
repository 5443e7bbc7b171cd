package views

import "encoding/base64"

// DeriveVisitorID returns a stable pseudo identity for a requester. It is an
// opaque token, not a secure fingerprint.
func DeriveVisitorID(addr, userAgent string) string {
	return base64.StdEncoding.EncodeToString([]byte(addr + "-" + userAgent))
}
