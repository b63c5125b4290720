package common

// Fallback asset URLs used when a user or ad has no uploaded image
const (
	DefaultAvatarURL = "/images/default-avatar.png"
	NoImageURL       = "/images/no-image.png"
)
