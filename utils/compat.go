package utils

// CheckScreenCompatibility reports whether every requested screen ID refers
// to a known screen, and returns the IDs that do not. Pure lookup, no
// external calls.
func CheckScreenCompatibility(screenIDs, validScreenIDs []uint) (bool, []uint) {
	valid := make(map[uint]struct{}, len(validScreenIDs))
	for _, id := range validScreenIDs {
		valid[id] = struct{}{}
	}

	invalid := make([]uint, 0)
	for _, id := range screenIDs {
		if _, ok := valid[id]; !ok {
			invalid = append(invalid, id)
		}
	}
	return len(invalid) == 0, invalid
}
