package types

// Availability represents a user's presence availability as reported by
// Microsoft Graph. Notification payloads may carry values outside this set;
// they are relayed as-is.
type Availability string

const (
	AvailabilityAvailable       Availability = "Available"
	AvailabilityAvailableIdle   Availability = "AvailableIdle"
	AvailabilityAway            Availability = "Away"
	AvailabilityBeRightBack     Availability = "BeRightBack"
	AvailabilityBusy            Availability = "Busy"
	AvailabilityBusyIdle        Availability = "BusyIdle"
	AvailabilityDoNotDisturb    Availability = "DoNotDisturb"
	AvailabilityOffline         Availability = "Offline"
	AvailabilityPresenceUnknown Availability = "PresenceUnknown"
)

// IsValid checks if the availability is a known Graph value
func (a Availability) IsValid() bool {
	switch a {
	case AvailabilityAvailable,
		AvailabilityAvailableIdle,
		AvailabilityAway,
		AvailabilityBeRightBack,
		AvailabilityBusy,
		AvailabilityBusyIdle,
		AvailabilityDoNotDisturb,
		AvailabilityOffline,
		AvailabilityPresenceUnknown:
		return true
	default:
		return false
	}
}

// String returns the string representation of the availability
func (a Availability) String() string {
	return string(a)
}
