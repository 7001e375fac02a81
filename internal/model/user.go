package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// User mirrors the backend's user record as returned by the auth and
// profile endpoints. Optional fields are pointers so that "absent" and
// "empty" can be told apart when the record is re-serialized into the
// local device store.
//
// Fields:
//  ID       – primary key identifier assigned by the backend.
//  Name     – display name.
//  Email    – login email, normalized server-side.
//  Phone    – optional contact number.
//  Avatar   – optional avatar image path.
//  IsSeller – whether the seller role has been unlocked (one-way flip).
//  Rating   – seller rating, present only for sellers with reviews.
type User struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Phone    *string  `json:"phone,omitempty"`
	Avatar   *string  `json:"avatar,omitempty"`
	IsSeller BoolFlag `json:"is_seller"`
	Rating   *float64 `json:"rating,omitempty"`
}

// BoolFlag is a bool that also decodes from the 0/1 integers and "0"/"1"
// strings the MySQL-backed API emits for tinyint columns. It always
// re-encodes as a strict JSON bool, so anything written to the local
// store is already normalized.
type BoolFlag bool

func (b *BoolFlag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "true", "1", `"1"`, `"true"`:
		*b = true
	case "false", "0", `"0"`, `"false"`, "null", `""`:
		*b = false
	default:
		return fmt.Errorf("model: cannot decode %q as bool flag", data)
	}
	return nil
}

func (b BoolFlag) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(b))
}

// ProfileUpdate carries the editable profile fields for PUT /users/{id}.
// Nil fields are omitted so the backend only touches what was submitted.
type ProfileUpdate struct {
	Name   *string `json:"name,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}
