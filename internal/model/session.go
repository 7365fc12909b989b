package model

// UserProfile is the operator profile returned by the profile endpoint.
// It is replaced wholesale on every login.
type UserProfile struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	Name     string   `json:"name,omitempty"`
	Email    string   `json:"email,omitempty"`
}

func (u *UserProfile) HasRole(role string) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Session is the in-memory view of who is using the console.
type Session struct {
	Token   string
	User    *UserProfile
	Loading bool
}

// IsAuthenticated is derived from the presence of both token and user and
// is never stored on its own.
func (s Session) IsAuthenticated() bool {
	return s.Token != "" && s.User != nil
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is the credential exchange result. Only AccessToken is used.
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	TokenType    string `json:"tokenType,omitempty"`
}
