// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package multiextract

import "golang.org/x/sys/unix"

// errNoAttr is returned by getxattr for missing attributes
const errNoAttr = unix.ENOATTR

// zoneAttributes are the quarantine attributes of downloaded files
var zoneAttributes = []string{"com.apple.quarantine", "com.apple.metadata:kMDItemWhereFroms"}
