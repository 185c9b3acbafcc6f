package models

// User represents an account. Email is the lookup key.
type User struct {
	ID       string `bson:"_id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email" json:"email"`
	Password string `bson:"password,omitempty" json:"-"`
	Address  string `bson:"address,omitempty" json:"address,omitempty"`
	Phone    string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// NewUser holds the fields of a user before an id is assigned
type NewUser struct {
	Name     string
	Email    string
	Password string
	Address  string
	Phone    string
}

// ProfileUpdate is a partial user; nil fields are left as they are
type ProfileUpdate struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"-"`
	Address  *string `json:"address,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

// Apply shallow-merges the set fields over u
func (p ProfileUpdate) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	return u
}
