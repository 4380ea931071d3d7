package notify

// Variant controls how a client renders a notification.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is the dismissable message a view shows after an action.
type Notification struct {
	Variant     Variant `json:"variant"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
}

// Success builds a default-variant notification.
func Success(title, description string) *Notification {
	return &Notification{Variant: VariantDefault, Title: title, Description: description}
}

// Failure builds a destructive notification.
func Failure(title, description string) *Notification {
	return &Notification{Variant: VariantDestructive, Title: title, Description: description}
}
