package dto

// CurrentUserResponse exposes the signed-in identity.
type CurrentUserResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
	Role        string `json:"role,omitempty"`
}

// SignOutResponse tells the client where to send the user next.
type SignOutResponse struct {
	LoginURL string `json:"login_url"`
}
