package carfleet

import "embed"

// EmailFS carries the transactional email templates compiled into the binary.
//
//go:embed templates/emails
var EmailFS embed.FS
