// Copyright 2026 The Nlfem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	// import all elements
	_ "github.com/strucmech/nlfem/ele/solid"
)
