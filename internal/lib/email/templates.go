package email

// Template names a file under templates/, without the extension.
type Template string

const (
	TemplateConferenceCreated Template = "conference_created"
)
