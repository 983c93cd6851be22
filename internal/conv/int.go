package conv

import (
	"encoding/json"
	"strconv"
)

// AsInt converts v to int, returning 0 when v is not numeric
func AsInt(v interface{}) int {
	switch actual := v.(type) {
	case int:
		return actual
	case int32:
		return int(actual)
	case int64:
		return int(actual)
	case uint64:
		return int(actual)
	case float64:
		return int(actual)
	case float32:
		return int(actual)
	case json.Number:
		i, _ := actual.Int64()
		return int(i)
	case string:
		i, _ := strconv.Atoi(actual)
		return i
	case *int:
		if actual != nil {
			return *actual
		}
	}
	return 0
}
