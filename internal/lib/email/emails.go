package email

import "fmt"

// ConferenceCreated holds what the organizer sees in the confirmation.
type ConferenceCreated struct {
	OrganizerName string
	Name          string
	Description   string
	City          string
	StartDate     string
	EndDate       string
	MaxAttendees  int
	Topics        string
	WebsafeKey    string
}

func (d ConferenceCreated) templateData() map[string]string {
	return map[string]string{
		"OrganizerName": d.OrganizerName,
		"Name":          d.Name,
		"Description":   d.Description,
		"City":          d.City,
		"StartDate":     d.StartDate,
		"EndDate":       d.EndDate,
		"MaxAttendees":  fmt.Sprint(d.MaxAttendees),
		"Topics":        d.Topics,
		"WebsafeKey":    d.WebsafeKey,
	}
}

// SendConferenceCreatedEmail confirms a new conference to its organizer.
func (c *Client) SendConferenceCreatedEmail(to string, d ConferenceCreated) error {
	return c.SendEmail(
		to,
		fmt.Sprintf("You created a new Conference: %s", d.Name),
		TemplateConferenceCreated,
		d.templateData(),
	)
}
