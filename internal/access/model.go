package access

// User is a clinic account. PasswordHash = H(Salt + password) where H is
// named by Scheme; an empty Scheme means sha256.
type User struct {
	Username     string `json:"username"`
	Role         Role   `json:"role"`
	PasswordHash string `json:"password_hash"`
	Salt         string `json:"salt"`
	Scheme       string `json:"scheme,omitempty"`
}

// Can reports whether the user's role grants action. A nil user can do
// nothing.
func (u *User) Can(action Action) bool {
	if u == nil {
		return false
	}
	return Allowed(u.Role, action)
}
