package domain

// User is the read-only display slice of a marketplace member.
// The messaging core never mutates users.
type User struct {
	ID        string `gorm:"column:id;primaryKey;size:64" json:"id"`
	Nickname  string `gorm:"column:nickname;size:100" json:"nickname"`
	AvatarURL string `gorm:"column:avatar_url;size:500" json:"avatar_url"`
}

func (User) TableName() string {
	return "users"
}
