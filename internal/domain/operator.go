package domain

// RequestType enumerates the categories a customer can file a ticket
// under and an operator can be qualified for.
type RequestType string

const (
	RequestTypeInstallation  RequestType = "Installation"
	RequestTypeConfiguration RequestType = "Configuration"
	RequestTypeAssistance    RequestType = "Assistance"
	RequestTypeOther         RequestType = "Other"
)

// RequestTypes lists the closed set in display order.
func RequestTypes() []RequestType {
	return []RequestType{
		RequestTypeInstallation,
		RequestTypeConfiguration,
		RequestTypeAssistance,
		RequestTypeOther,
	}
}

// AvailabilityHours is a wall-clock working window in "HH:MM" form.
// The window does not wrap midnight; end before start means the
// operator is never available by time.
type AvailabilityHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Operator is the client-side copy of a desk operator profile.
type Operator struct {
	ID                     string            `json:"id"`
	Name                   string            `json:"name"`
	LastName               string            `json:"lastName"`
	UserEmail              string            `json:"userEmail"`
	ManageableRequestTypes []RequestType     `json:"manageableRequestTypes"`
	AvailabilityHours      AvailabilityHours `json:"availabilityHours"`
	ActiveTicketsCount     int               `json:"activeTicketsCount"`
	UserID                 string            `json:"userId"`
}
