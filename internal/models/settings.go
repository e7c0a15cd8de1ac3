package models

// AppSettings is the singleton settings record shared by every panel.
type AppSettings struct {
	AccessKey       string      `json:"accessKey"`
	GetKeyURL       string      `json:"getKeyUrl"` // Where users go to obtain the access key
	MaintenanceMode bool        `json:"maintenanceMode"`
	SocialLinks     SocialLinks `json:"socialLinks"`
	AdminEmail      string      `json:"adminEmail"`
}

// SocialLinks holds the community links shown on the login and user views.
type SocialLinks struct {
	YouTube   string `json:"youtube"`
	Telegram  string `json:"telegram"`
	Instagram string `json:"instagram"`
	Discord   string `json:"discord"`
}
