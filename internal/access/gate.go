// Package access decides who may read, transition, chat on and download
// files from a report. Every decision is a pure function of the actor and
// the report's ownership fields.
package access

import (
	"crypto/subtle"

	apperrors "github.com/xyz-asif/whistleblow/pkg/errors"
)

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super-admin"
)

// ParseRole returns the role named by s or false when s is not a known role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return Role(s), true
	}
	return "", false
}

// IsAdmin reports whether the role may handle reports.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

func (r Role) String() string { return string(r) }

// Actor is the caller of a request. An actor without a UserID is anonymous
// and may carry a report's unique code as a capability.
type Actor struct {
	UserID uint
	Role   Role
	Code   string
}

func Anonymous(code string) Actor {
	return Actor{Code: code}
}

func (a Actor) Authenticated() bool { return a.UserID != 0 }

func (a Actor) IsAdmin() bool { return a.Authenticated() && a.Role.IsAdmin() }

// Subject holds the report fields access decisions depend on.
type Subject struct {
	OwnerID    *uint
	Anonymous  bool
	UniqueCode string
	HandlerID  *uint
}

type Action int

const (
	ReadReport Action = iota
	TransitionReport
	ReadChat
	WriteChat
	DownloadFile
)

func (a Action) String() string {
	switch a {
	case ReadReport:
		return "read report"
	case TransitionReport:
		return "transition report"
	case ReadChat:
		return "read chat"
	case WriteChat:
		return "write chat"
	case DownloadFile:
		return "download file"
	}
	return "unknown action"
}

// Check returns nil when actor may perform action on subject, otherwise a
// Forbidden or Unauthorized error.
func Check(actor Actor, action Action, subject Subject) error {
	if action == TransitionReport {
		if !actor.Authenticated() {
			return apperrors.Unauthorized("authentication required")
		}
		if !actor.Role.IsAdmin() {
			return apperrors.Forbidden("only administrators can change report status")
		}
		return nil
	}

	if actor.IsAdmin() {
		return nil
	}

	if subject.Anonymous {
		if holdsCode(actor, subject) {
			return nil
		}
		if !actor.Authenticated() && actor.Code == "" {
			return apperrors.Unauthorized("authentication required")
		}
		return apperrors.Forbidden("no access to this report")
	}

	if !actor.Authenticated() {
		return apperrors.Unauthorized("authentication required")
	}
	if subject.OwnerID != nil && *subject.OwnerID == actor.UserID {
		return nil
	}
	return apperrors.Forbidden("no access to this report")
}

func holdsCode(actor Actor, subject Subject) bool {
	if actor.Code == "" || subject.UniqueCode == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(actor.Code), []byte(subject.UniqueCode)) == 1
}

// CanManageAdmins reports whether the actor may create, update or delete
// administrator accounts.
func CanManageAdmins(actor Actor) error {
	if !actor.Authenticated() {
		return apperrors.Unauthorized("authentication required")
	}
	if actor.Role != RoleSuperAdmin {
		return apperrors.Forbidden("only super-admin can manage administrators")
	}
	return nil
}

// FileBelongs guards against releasing a file through another report's URL.
func FileBelongs(fileReportID, reportID uint) error {
	if fileReportID != reportID {
		return apperrors.NotFound("File not found")
	}
	return nil
}
