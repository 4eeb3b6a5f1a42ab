package models

import (
	"time"
)

// Group shares the short-code scheme with users. Admins are kept disjoint
// from Members in storage but always receive group traffic; banned codes
// never appear in Members, Admins or Muted.
type Group struct {
	Code         string    `json:"code" db:"code"`
	Name         string    `json:"name" db:"name"`
	Icon         string    `json:"icon" db:"icon"`
	Members      []string  `json:"members" db:"members"`
	Admins       []string  `json:"admins" db:"admins"`
	Muted        []string  `json:"muted" db:"muted"`
	Banned       []string  `json:"banned" db:"banned"`
	JoinDisabled bool      `json:"joinDisabled" db:"join_disabled"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Recipients returns the union of members and admins, the full delivery
// set for group messages.
func (g *Group) Recipients() []string {
	seen := make(map[string]bool, len(g.Members)+len(g.Admins))
	out := make([]string, 0, len(g.Members)+len(g.Admins))
	for _, code := range g.Members {
		if !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
	}
	for _, code := range g.Admins {
		if !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
	}
	return out
}

// IsGroupAdmin reports whether code may perform group-admin operations.
func (g *Group) IsGroupAdmin(code string) bool {
	for _, c := range g.Admins {
		if c == code {
			return true
		}
	}
	return false
}

// IsBanned reports whether code is banned from the group.
func (g *Group) IsBanned(code string) bool {
	for _, c := range g.Banned {
		if c == code {
			return true
		}
	}
	return false
}

type CreateGroupRequest struct {
	Name              string   `json:"name"`
	Icon              string   `json:"icon,omitempty"`
	Members           []string `json:"members"`
	Admins            []string `json:"admins"`
	InvitationMessage string   `json:"invitationMessage,omitempty"`
}

type GroupUpdateRequest struct {
	RequesterCode string  `json:"requesterCode"`
	Name          *string `json:"name,omitempty"`
	Icon          *string `json:"icon,omitempty"`
	JoinDisabled  *bool   `json:"joinDisabled,omitempty"`
}

type JoinGroupRequest struct {
	GroupCode string `json:"groupCode"`
}

type GroupMemberActionRequest struct {
	RequesterCode string `json:"requesterCode"`
	TargetCode    string `json:"targetCode"`
}
