package users

import (
	"encoding/json"
	"strings"
)

// ID accepts both JSON strings and numbers; the backend uses numeric ids for
// some resources.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// Right is a single named authority granted through a role.
// The backend sends rights either as {"authority": "X"} objects or as bare strings.
type Right struct {
	Authority string `json:"authority"`
}

func (r *Right) UnmarshalJSON(data []byte) error {
	var authority string
	if err := json.Unmarshal(data, &authority); err == nil {
		r.Authority = authority
		return nil
	}
	type plain Right
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Right(p)
	return nil
}

// Role groups a set of rights under a name such as "ADMIN".
type Role struct {
	Name   string  `json:"name"`
	Rights []Right `json:"rights,omitempty"`
}

// User is the identity resolved for the current access token (GET /v1/users/me).
type User struct {
	ID        ID     `json:"id,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Enabled   bool   `json:"enabled,omitempty"`
	Roles     []Role `json:"roles,omitempty"`
}

// FullName joins first and last name, falling back to the email address.
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// HasRole reports whether the user holds a role with the given name.
func (u *User) HasRole(name string) bool {
	if u == nil {
		return false
	}
	for _, role := range u.Roles {
		if role.Name == name {
			return true
		}
	}
	return false
}

// HasPermission reports whether any of the user's roles grants authority.
func (u *User) HasPermission(authority string) bool {
	if u == nil {
		return false
	}
	for _, role := range u.Roles {
		for _, right := range role.Rights {
			if right.Authority == authority {
				return true
			}
		}
	}
	return false
}

// RoleNames lists the names of the user's roles in order.
func (u *User) RoleNames() []string {
	if u == nil {
		return nil
	}
	names := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		names = append(names, role.Name)
	}
	return names
}
