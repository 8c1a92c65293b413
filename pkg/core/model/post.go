// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "fmt"

// Post models a wiki article. Every post references the user who
// authored it; the referential integrity of that reference is enforced
// by the store (a foreign key), not re-checked by the core.
type Post struct {
	ID       int64  // store-assigned identity
	Title    string // required
	Content  string // body text, may be empty
	AuthorID int64  // identity of the authoring User
}

// PostPatch enumerates the post fields which may be updated after
// creation. A nil field is left unchanged. The author reference is
// absent deliberately: posts are never reassigned between users.
type PostPatch struct {
	Title   *string
	Content *string
}

// Validate returns nil if the patch updates at least one field and
// every present field carries a usable value.
func (p PostPatch) Validate() error {
	if p.Title == nil && p.Content == nil {
		return ErrEmptyPatch
	}
	if p.Title != nil && *p.Title == "" {
		return fmt.Errorf("title may not be empty")
	}
	return nil
}
