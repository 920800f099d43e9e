package basket

import "strings"

const redactedPlaceholder = "REDACTED"

// RedactOwner masks the local part of an email-like identity so it can be
// attached to a span: "ab@example.com" becomes "a*@example.com". Values
// without a maskable local part come out as "REDACTED". This function sits
// on every trace-tagging path, so it is pure and must never fail.
func RedactOwner(ownerUID string) string {
	at := strings.Index(ownerUID, "@")
	if at <= 1 {
		return redactedPlaceholder
	}

	return ownerUID[:1] + strings.Repeat("*", at-1) + ownerUID[at:]
}
