package httpx

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseServices parses a comma separated list of service ids such as "1, 2,3".
// An empty value yields nil.
func ParseServices(value string) ([]int64, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	services := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q in services query parameter, must be a number", part)
		}
		services = append(services, n)
	}
	return services, nil
}
