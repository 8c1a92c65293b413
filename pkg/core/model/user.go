// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// Models in this package carry no framework tags; the adapter layer
// maintains its own row structs and maps them to these models, so the
// storage format may evolve without touching the domain types.
package model

import (
	"errors"
	"fmt"
)

// User models a registered author of the wiki. The identity is an
// opaque numeric key which is assigned by the store when the user row
// is created and never changes afterwards.
type User struct {
	ID       int64  // store-assigned identity
	Username string // display name, required
	Email    string // contact address, required
}

// UserPatch enumerates the user fields which may be updated after
// creation. A nil field is left unchanged. The identity is absent
// deliberately since it is immutable.
type UserPatch struct {
	Username *string
	Email    *string
}

// ErrEmptyPatch indicates that a patch carries no field at all, so
// applying it would update nothing. Such patches are rejected before
// any database session is opened.
var ErrEmptyPatch = errors.New("patch contains no field")

// Validate returns nil if the patch updates at least one field and
// every present field carries a usable value. Violations are reported
// before the patch reaches a repository, so no row is touched.
func (p UserPatch) Validate() error {
	if p.Username == nil && p.Email == nil {
		return ErrEmptyPatch
	}
	if p.Username != nil && *p.Username == "" {
		return fmt.Errorf("username may not be empty")
	}
	if p.Email != nil && *p.Email == "" {
		return fmt.Errorf("email may not be empty")
	}
	return nil
}
