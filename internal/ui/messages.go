// Package ui is the interactive report viewer.
package ui

import "github.com/ppiankov/assay/internal/session"

// resultMsg carries a collaborator answer back to the session that asked
type resultMsg struct {
	ticket session.Ticket
	raw    []byte
	err    error
}
