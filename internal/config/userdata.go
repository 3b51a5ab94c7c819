package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Favourite is one saved shortcut: a device folder, a file location or an adb command
type Favourite struct {
	Name string `json:"name"`
	URI  string `json:"uri"`
	Icon string `json:"icon,omitempty"`
}

// UserData holds user-specific settings that are stored locally
type UserData struct {
	SavePath   string                 `json:"save_path,omitempty"`
	LastPath   string                 `json:"last_path,omitempty"`
	Favourites map[string][]Favourite `json:"favourites,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// LoadUserData loads user data from the user.data file in the config directory
func LoadUserData() (*UserData, error) {
	userDataPath, err := getUserDataPath()
	if err != nil {
		return createDefaultUserData(), nil
	}

	if _, err := os.Stat(userDataPath); os.IsNotExist(err) {
		return createDefaultUserData(), nil
	}

	data, err := os.ReadFile(userDataPath)
	if err != nil {
		return createDefaultUserData(), nil
	}

	var userData UserData
	if err := json.Unmarshal(data, &userData); err != nil {
		// Invalid JSON, return default
		return createDefaultUserData(), nil
	}

	if userData.Favourites == nil {
		userData.Favourites = map[string][]Favourite{}
	}

	return &userData, nil
}

// SaveUserData saves user data to the user.data file in the config directory
func (ud *UserData) SaveUserData() error {
	userDataPath, err := getUserDataPath()
	if err != nil {
		return err
	}

	ud.UpdatedAt = time.Now()
	if ud.CreatedAt.IsZero() {
		ud.CreatedAt = ud.UpdatedAt
	}

	data, err := json.MarshalIndent(ud, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(userDataPath, data, 0644)
}

// SetSavePath sets the local download directory and saves to file
func (ud *UserData) SetSavePath(dir string) error {
	ud.SavePath = dir
	return ud.SaveUserData()
}

// SetLastPath records the last browsed device directory and saves to file
func (ud *UserData) SetLastPath(p string) error {
	ud.LastPath = p
	return ud.SaveUserData()
}

// ResolveSavePath prefers the persisted save path over the configured one
func (ud *UserData) ResolveSavePath(configured string) string {
	if ud.SavePath != "" {
		return ud.SavePath
	}
	return configured
}

// createDefaultUserData creates a new UserData with default values
func createDefaultUserData() *UserData {
	now := time.Now()
	return &UserData{
		Favourites: map[string][]Favourite{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// getUserDataPath returns the path to the user.data file
func getUserDataPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	configDir := filepath.Join(homeDir, ".hsq-cli")

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", err
	}

	return filepath.Join(configDir, "user.data"), nil
}
