package postgres

// textArray normalizes a nil slice to an empty one so array parameters
// never reach the driver as NULL.
func textArray(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}
