// Package cities resolves service-area cities and their timezones from
// free-form addresses. Booking forms only carry a wall-clock date and time;
// the detected city supplies the IANA zone used to derive the absolute
// pickup instant.
package cities

import (
	"strings"
	"time"
)

// City is a service-area metro with its IANA timezone.
type City struct {
	Name     string
	Timezone string
	keywords []string
}

var serviceCities = []City{
	{Name: "Sydney", Timezone: "Australia/Sydney", keywords: []string{"sydney", "nsw", "mascot", "parramatta", "kingsford smith"}},
	{Name: "Melbourne", Timezone: "Australia/Melbourne", keywords: []string{"melbourne", "vic", "tullamarine", "avalon"}},
	{Name: "Brisbane", Timezone: "Australia/Brisbane", keywords: []string{"brisbane", "qld", "eagle farm"}},
	{Name: "Gold Coast", Timezone: "Australia/Brisbane", keywords: []string{"gold coast", "coolangatta", "surfers paradise"}},
	{Name: "Perth", Timezone: "Australia/Perth", keywords: []string{"perth", "wa", "fremantle"}},
	{Name: "Adelaide", Timezone: "Australia/Adelaide", keywords: []string{"adelaide", "sa "}},
	{Name: "Canberra", Timezone: "Australia/Sydney", keywords: []string{"canberra", "act"}},
	{Name: "Hobart", Timezone: "Australia/Hobart", keywords: []string{"hobart", "tas"}},
	{Name: "Darwin", Timezone: "Australia/Darwin", keywords: []string{"darwin", "nt "}},
}

// Default is the city assumed when no address matches a known metro.
func Default() City {
	return serviceCities[0]
}

// Detect scans the given addresses (pickup first) for a known metro.
// The first address with a match wins.
func Detect(addresses ...string) (City, bool) {
	for _, addr := range addresses {
		lower := strings.ToLower(addr)
		for _, city := range serviceCities {
			for _, kw := range city.keywords {
				if strings.Contains(lower, kw) {
					return city, true
				}
			}
		}
	}
	return Default(), false
}

// LocalPickupTime combines a wall-clock date (2006-01-02) and time (15:04)
// with an IANA timezone into an absolute instant.
func LocalPickupTime(date, timeOfDay, timezone string) (time.Time, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.Time{}, err
	}
	return time.ParseInLocation("2006-01-02 15:04", date+" "+timeOfDay, loc)
}
