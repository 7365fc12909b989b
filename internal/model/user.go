package model

// User is an account known to the development backend.
type User struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	PasswordHash string   `json:"passwordHash"`
	DisplayName  string   `json:"displayName"`
	Email        string   `json:"email"`
	Roles        []string `json:"roles"`
}

func (u *User) Profile() *UserProfile {
	roles := make([]string, len(u.Roles))
	copy(roles, u.Roles)
	return &UserProfile{
		Username: u.Name,
		Roles:    roles,
		Name:     u.DisplayName,
		Email:    u.Email,
	}
}
