package domain

// Ad is the read-only slice of a listing the messaging core needs:
// ownership for participant validation, title and preview image for views.
// Ad lifecycle (creation, search, moderation) is owned elsewhere.
type Ad struct {
	Title  string    `gorm:"column:title;size:100" json:"title"`
	UserID string    `gorm:"column:user_id;size:64;index" json:"user_id"`
	Images []AdImage `gorm:"foreignKey:AdID" json:"images"`
	ID     int       `gorm:"column:id;primaryKey" json:"id"`
}

func (Ad) TableName() string {
	return "ads"
}

// AdImage is a listing photo; the first by id serves as the preview
type AdImage struct {
	ImageURL string `gorm:"column:image_url;size:500" json:"image_url"`
	ID       int    `gorm:"column:id;primaryKey" json:"id"`
	AdID     int    `gorm:"column:ad_id;index" json:"ad_id"`
}

func (AdImage) TableName() string {
	return "ad_images"
}

// PreviewImageURL returns the first ad image URL, or empty if none
func (a *Ad) PreviewImageURL() string {
	if len(a.Images) == 0 {
		return ""
	}
	first := a.Images[0]
	for _, img := range a.Images[1:] {
		if img.ID < first.ID {
			first = img
		}
	}
	return first.ImageURL
}
