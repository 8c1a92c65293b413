// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postsuc

import (
	"errors"
	"fmt"
)

// Option is a functional option for the posts use case.
type Option func(uc *UseCase) error

// WithDefaultPageSize option configures a posts UseCase instance
// in order to return as much as the given count of posts whenever a
// listing request does not specify a limit itself. This option may be
// passed to the New() function.
func WithDefaultPageSize(count int) Option {
	return func(uc *UseCase) error {
		if count <= 0 {
			return fmt.Errorf("default page size (%d) is not positive", count)
		}
		if uc.defaultPageSize != 0 {
			return errors.New("default page size is already configured")
		}
		uc.defaultPageSize = count
		return nil
	}
}

// WithMaxPageSize option configures a posts UseCase instance in order
// to cap the listing request limits at the given count. This option
// may be passed to the New() function.
func WithMaxPageSize(count int) Option {
	return func(uc *UseCase) error {
		if count <= 0 {
			return fmt.Errorf("max page size (%d) is not positive", count)
		}
		if uc.maxPageSize != 0 {
			return errors.New("max page size is already configured")
		}
		uc.maxPageSize = count
		return nil
	}
}
