package entity

// Identity is the authenticated caller, resolved once per request from the credential.
type Identity struct {
	userID   uint
	email    string
	nickname string
}

func NewIdentity(u *User) Identity {
	return Identity{userID: u.ID, email: u.Email, nickname: u.Nickname}
}

func (i Identity) UserID() uint     { return i.userID }
func (i Identity) Email() string    { return i.email }
func (i Identity) Nickname() string { return i.nickname }

// IsZero reports an unauthenticated caller.
func (i Identity) IsZero() bool { return i.userID == 0 }

func (i Identity) Owns(userID uint) bool {
	return !i.IsZero() && i.userID == userID
}
