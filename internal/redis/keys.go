package redis

import "fmt"

const ns = "flytau:v1"

func KeyFlightDetails(number string) string {
	return fmt.Sprintf("%s:flight:%s:details", ns, number)
}

func KeyFlightAvailability(number string) string {
	return fmt.Sprintf("%s:flight:%s:availability", ns, number)
}

func KeyFlightSeatMap(number string) string {
	return fmt.Sprintf("%s:flight:%s:seatmap", ns, number)
}

func KeySearch(date, origin, destination string) string {
	return fmt.Sprintf("%s:search:%s:%s:%s", ns, date, origin, destination)
}

func KeyAirports() string {
	return ns + ":airports"
}

func KeyFlightDraft(draftID string) string {
	return fmt.Sprintf("%s:draft:%s", ns, draftID)
}

func KeyRateLimit(scope string) string {
	return fmt.Sprintf("%s:rl:%s", ns, scope)
}

func ChannelFlightsChanged() string {
	return ns + ":flights:changed"
}
