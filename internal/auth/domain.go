package auth

// loginPayload is the upstream login response. The backend spells the
// identifier both ways depending on the route that served it.
type loginPayload struct {
	Token    string `json:"token"`
	ID       string `json:"_id"`
	AltID    string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (p loginPayload) identifier() string {
	if p.ID != "" {
		return p.ID
	}
	return p.AltID
}
