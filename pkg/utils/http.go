// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package utils

import (
	"fmt"
	"net/url"
)

// ValidateURLFormat accepts absolute http, https, ws and wss endpoints
func ValidateURLFormat(input string) error {
	u, err := url.ParseRequestURI(input)
	if err != nil {
		return err
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return fmt.Errorf("unsupported scheme %q in %s", u.Scheme, input)
	}
	if u.Host == "" {
		return fmt.Errorf("no host in %s", input)
	}
	return nil
}
