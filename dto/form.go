package dto

// Form mirrors a bound HTML form: submitted values plus per-field errors.
type Form struct {
	Fields interface{}         `json:"fields"`
	Errors map[string][]string `json:"errors,omitempty"`
}

func NewForm(fields interface{}, errs map[string][]string) *Form {
	return &Form{Fields: fields, Errors: errs}
}

type Link struct {
	Href   string `json:"href"`
	Method string `json:"method,omitempty"` // Optional: GET, POST, DELETE
}
