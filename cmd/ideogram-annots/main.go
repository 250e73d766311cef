// Copyright (C) The Lightning Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package main

import (
	annots "github.com/scviz/ideogram-annots"
)

func main() {
	annots.Main()
}
