package workflow

import "github.com/gdelafosse/seerrbridge/internal/media"

// Availability classifies a catalog item by its request-service status
type Availability string

const (
	AvailabilityNotRequested Availability = "not_requested"
	AvailabilityRequested    Availability = "requested"
	AvailabilityPartial      Availability = "partially_available"
	AvailabilityAvailable    Availability = "available"
)

// Action names an operation the caller may offer for an item
type Action string

const (
	ActionRequest     Action = "request"
	ActionRequestMore Action = "request_more"
	ActionWatch       Action = "watch"
)

// Classify maps a media status code to its availability class. Any
// code outside the known set counts as not requested.
func Classify(status int) Availability {
	switch status {
	case media.StatusCodeRequested:
		return AvailabilityRequested
	case media.StatusCodePartial:
		return AvailabilityPartial
	case media.StatusCodeAvailable:
		return AvailabilityAvailable
	default:
		return AvailabilityNotRequested
	}
}

// Actions lists the operations offered for an availability class
func (a Availability) Actions() []Action {
	switch a {
	case AvailabilityRequested:
		return nil
	case AvailabilityPartial:
		return []Action{ActionWatch, ActionRequestMore}
	case AvailabilityAvailable:
		return []Action{ActionWatch}
	default:
		return []Action{ActionRequest}
	}
}

// Decoration returns the label suffix for an availability class, or
// an empty string when the item is unrequested
func (a Availability) Decoration() string {
	switch a {
	case AvailabilityRequested:
		return "(Requested)"
	case AvailabilityPartial:
		return "(Partially Available)"
	case AvailabilityAvailable:
		return "(Available)"
	default:
		return ""
	}
}
