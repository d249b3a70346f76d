package model

// User holds the local user data relevant to the application (outside of firebase)
type User struct {
	Id          string `db:"firebase_id" json:"id"`
	Username    string `db:"username" json:"username"`
	DisplayName string `db:"display_name" json:"displayName"`
	IsAdmin     bool   `db:"is_admin" json:"isAdmin"`
	Avatar      string `db:"-" json:"avatar"`
}

// Name is what pages show for the user.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

func (u *User) Is(other *User) bool {
	return u != nil && other != nil && u.Id == other.Id
}
