// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package annots

import "errors"

// Error kinds returned by the conversion pipeline. Callers can test
// for them with errors.Is; every returned error wraps one of these
// (or is a plain I/O error from os/pgzip) and names the input and
// record that triggered it.
var (
	ErrConfig = errors.New("configuration error")
	ErrParse  = errors.New("parse error")
	ErrLookup = errors.New("lookup error")
	ErrData   = errors.New("data error")
)
