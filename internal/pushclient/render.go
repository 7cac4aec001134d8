package pushclient

// Defaults applied when a payload omits fields. Rendered notifications
// never carry empty strings.
const (
	DefaultTitle = "LocalMart"
	DefaultBody  = "You have a new notification."
	DefaultTag   = "general"
)

// Rendered is the normalized notification shape shared by the background
// worker and the foreground router. Both delivery paths go through Render,
// so the defaulting rules live in exactly one place.
type Rendered struct {
	Title string
	Body  string
	Tag   string
	Data  map[string]string
}

// Render normalizes a raw payload. The tag is the collapse key: a second
// payload with the same tag replaces the visible notification instead of
// flooding the user with repeats of the same class.
func Render(p Payload) Rendered {
	title := p.Title
	if title == "" {
		title = DefaultTitle
	}

	body := p.Body
	if body == "" {
		body = DefaultBody
	}

	tag := DefaultTag
	if t, ok := p.Data["type"]; ok && t != "" {
		tag = t
	}

	// The full payload data rides along so the click handler can resolve
	// the deep link later.
	data := make(map[string]string, len(p.Data))
	for k, v := range p.Data {
		data[k] = v
	}

	return Rendered{
		Title: title,
		Body:  body,
		Tag:   tag,
		Data:  data,
	}
}
