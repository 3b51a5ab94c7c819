package favourites

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/hsq-cli/internal/config"
)

// Kind names one favourites list
type Kind string

const (
	Browser Kind = "browser"
	File    Kind = "file"
	Command Kind = "command"
)

// Kinds lists every favourites list in display order
var Kinds = []Kind{File, Command, Browser}

// ParseKind accepts a list name such as "file" or "command"
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown favourites list: %s (valid: file, command, browser)", s)
}

// Defaults returns the built-in entries of a list
func Defaults(kind Kind) []config.Favourite {
	switch kind {
	case Command:
		return []config.Favourite{
			{Name: "List Devices", URI: "adb devices"},
			{Name: "Enable USB ADB", URI: "adb usb"},
			{Name: "Disconnect Everything", URI: "adb disconnect"},
			{Name: "Reset ADB", URI: "adb kill-server"},
			{Name: "Reboot Headset", URI: "adb reboot"},
		}
	case File:
		return []config.Favourite{
			{Name: "SynthRiders", URI: "/sdcard/Android/data/com.kluge.SynthRiders/files/CustomSongs/"},
			{Name: "Song Beater", URI: "/sdcard/Android/data/com.playito.songbeater/CustomSongs/"},
			{Name: "VRtuos", URI: "/sdcard/Android/data/com.PavelMarceluch.VRtuos/files/Midis/"},
			{Name: "Audica", URI: "/sdcard/Audica/"},
			{Name: "OhShape", URI: "/sdcard/OhShape/Songs/"},
			{Name: "Oculus", URI: "/sdcard/Oculus/"},
		}
	default:
		return []config.Favourite{}
	}
}

// Manager edits the favourites stored in user data
type Manager struct {
	data *config.UserData
	save func() error
}

// NewManager creates a manager persisting through data.SaveUserData
func NewManager(data *config.UserData) *Manager {
	return newManager(data, data.SaveUserData)
}

func newManager(data *config.UserData, save func() error) *Manager {
	if data.Favourites == nil {
		data.Favourites = map[string][]config.Favourite{}
	}
	return &Manager{data: data, save: save}
}

// Get returns a copy of a list; lists never edited fall back to their defaults
func (m *Manager) Get(kind Kind) []config.Favourite {
	list, ok := m.data.Favourites[string(kind)]
	if !ok {
		return Defaults(kind)
	}
	return append([]config.Favourite(nil), list...)
}

// Add appends a favourite and saves
func (m *Manager) Add(kind Kind, fav config.Favourite) error {
	if strings.TrimSpace(fav.Name) == "" || strings.TrimSpace(fav.URI) == "" {
		return fmt.Errorf("favourite needs a name and a uri")
	}

	m.data.Favourites[string(kind)] = append(m.Get(kind), fav)
	logrus.Infof("added %s favourite %q -> %s", kind, fav.Name, fav.URI)
	return m.save()
}

// Remove deletes the favourite at index and saves
func (m *Manager) Remove(kind Kind, index int) error {
	list := m.Get(kind)
	if index < 0 || index >= len(list) {
		return fmt.Errorf("no %s favourite at index %d", kind, index)
	}

	m.data.Favourites[string(kind)] = append(list[:index], list[index+1:]...)
	return m.save()
}

// Reset restores a list to its defaults and saves
func (m *Manager) Reset(kind Kind) error {
	delete(m.data.Favourites, string(kind))
	return m.save()
}

// Export writes every list as JSON
func (m *Manager) Export(w io.Writer) error {
	all := make(map[Kind][]config.Favourite, len(Kinds))
	for _, k := range Kinds {
		all[k] = m.Get(k)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(all)
}

// Import replaces the lists present in r and saves
func (m *Manager) Import(r io.Reader) error {
	var all map[string][]config.Favourite
	if err := json.NewDecoder(r).Decode(&all); err != nil {
		return fmt.Errorf("invalid favourites file: %w", err)
	}

	for name := range all {
		if _, err := ParseKind(name); err != nil {
			return err
		}
	}

	for name, list := range all {
		if list == nil {
			list = []config.Favourite{}
		}
		m.data.Favourites[strings.ToLower(name)] = list
	}
	return m.save()
}

// CommandArgs splits a command favourite into adb arguments, dropping a leading "adb"
func CommandArgs(uri string) []string {
	fields := strings.Fields(uri)
	if len(fields) > 0 && fields[0] == "adb" {
		fields = fields[1:]
	}
	return fields
}
