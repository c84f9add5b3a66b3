package email

// PreviewData holds sample values for every template, keyed by template
// name, for rendering previews without sending anything.
var PreviewData = map[Template]map[string]string{
	TemplateConferenceCreated: ConferenceCreated{
		OrganizerName: "Jane",
		Name:          "Medical Innovations Summit",
		Description:   "Two days of talks on clinical technology.",
		City:          "London",
		StartDate:     "2026-05-04",
		EndDate:       "2026-05-05",
		MaxAttendees:  250,
		Topics:        "Medical Innovations, Robotics",
		WebsafeKey:    "preview",
	}.templateData(),
}

// Preview renders templateName with its sample data.
func Preview(templateName Template) (string, error) {
	return render(templateName, PreviewData[templateName])
}
