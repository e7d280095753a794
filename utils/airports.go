// utils/airports.go
package utils

import "strings"

// NormalizeAirportCode converts 4-letter US ICAO codes (e.g., "KJFK") to
// 3-letter codes ("JFK"). Other codes are returned as is. Converts to
// uppercase. Snapshot rows and query inputs both pass through here so the
// aggregation always compares codes in one canonical shape.
func NormalizeAirportCode(code string) string {
	upperCode := strings.ToUpper(strings.TrimSpace(code))
	if len(upperCode) == 4 && strings.HasPrefix(upperCode, "K") {
		return upperCode[1:]
	}
	return upperCode
}

// IsAirportCode reports whether code is a 3-letter uppercase IATA-style code.
func IsAirportCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}
