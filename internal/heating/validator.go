package heating

// Validator authenticates requests against the shared secret and the set of
// supported commands. It does not look at the channel.
type Validator struct {
	token string
}

// NewValidator creates a Validator for the given shared secret.
func NewValidator(token string) *Validator {
	return &Validator{token: token}
}

// Validate returns ErrUnauthorized unless the token matches and the command
// is supported.
func (v *Validator) Validate(req Request) error {
	if v.token == "" || req.Token != v.token {
		return ErrUnauthorized
	}
	if Classify(req.Command) == ActionUnknown {
		return ErrUnauthorized
	}
	return nil
}
