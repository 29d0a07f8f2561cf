// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package multiextract

import "golang.org/x/sys/unix"

// errNoAttr is returned by getxattr for missing attributes
const errNoAttr = unix.ENODATA

// zoneAttributes are the attributes browsers set on downloaded files
var zoneAttributes = []string{"user.xdg.origin.url", "user.xdg.referrer.url"}
