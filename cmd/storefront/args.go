package main

import (
	"fmt"
	"strconv"
	"strings"
)

// parseItemQuantity splits "Tennis ball=3". A bare name means one unit.
func parseItemQuantity(arg string) (string, int, error) {
	name, qty, found := strings.Cut(arg, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", 0, fmt.Errorf("missing item name in %q", arg)
	}
	if !found {
		return name, 1, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(qty))
	if err != nil {
		return "", 0, fmt.Errorf("bad quantity in %q: %w", arg, err)
	}
	return name, n, nil
}
