package browser

import (
	"math"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/HaiFongPan/hsq-cli/internal/adb"
)

// FileKind is the display bucket of a listing entry
type FileKind int

const (
	KindFolder FileKind = iota
	KindPhoto
	KindAudio
	KindVideo
	KindDocument
	KindPresentation
	KindSpreadsheet
)

var kindNames = [...]string{
	KindFolder:       "folder",
	KindPhoto:        "photo",
	KindAudio:        "audio",
	KindVideo:        "video",
	KindDocument:     "document",
	KindPresentation: "presentation",
	KindSpreadsheet:  "spreadsheet",
}

func (k FileKind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return "document"
	}
	return kindNames[k]
}

// MarshalText encodes the kind by name
func (k FileKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

var extensionKinds = map[string]FileKind{
	"gif":  KindPhoto,
	"png":  KindPhoto,
	"jpeg": KindPhoto,
	"jpg":  KindPhoto,
	"wav":  KindAudio,
	"ogg":  KindAudio,
	"mp3":  KindAudio,
	"avi":  KindVideo,
	"mp4":  KindVideo,
	"txt":  KindDocument,
	"docx": KindDocument,
	"doc":  KindDocument,
	"pptx": KindPresentation,
	"ppt":  KindPresentation,
	"xlsx": KindSpreadsheet,
	"xls":  KindSpreadsheet,
}

// Classify derives the kind of a raw entry from its extension
func Classify(name string, isFile bool) FileKind {
	if !isFile {
		return KindFolder
	}
	ext := name
	if i := strings.LastIndex(name, "."); i >= 0 {
		ext = name[i+1:]
	}
	if kind, ok := extensionKinds[strings.ToLower(ext)]; ok {
		return kind
	}
	return KindDocument
}

// Entry is one row of a device directory listing
type Entry struct {
	Name     string    `json:"name"`
	Kind     FileKind  `json:"kind"`
	Size     int64     `json:"size"`
	SizeMiB  float64   `json:"size_mib"`
	ModTime  time.Time `json:"mtime"`
	FullPath string    `json:"path"`
}

// IsFolder reports whether the entry can be navigated into
func (e Entry) IsFolder() bool {
	return e.Kind == KindFolder
}

// NewEntry builds an entry for a raw file found under parent
func NewEntry(parent string, fi adb.FileInfo) Entry {
	return Entry{
		Name:     fi.Name,
		Kind:     Classify(fi.Name, fi.IsFile),
		Size:     fi.Size,
		SizeMiB:  toMiB(fi.Size),
		ModTime:  fi.ModTime,
		FullPath: path.Join(parent, fi.Name),
	}
}

func toMiB(bytes int64) float64 {
	return math.Round(float64(bytes)/1024/1024*100) / 100
}

// SortEntries orders folders first, each group case-insensitively by name
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		fi, fj := entries[i].IsFolder(), entries[j].IsFolder()
		if fi != fj {
			return fi
		}
		return strings.ToUpper(entries[i].Name) < strings.ToUpper(entries[j].Name)
	})
}

// Breadcrumb is one segment of the current path
type Breadcrumb struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// Breadcrumbs splits p into root-first crumbs; empty segments are dropped.
// "a/b/c" yields a, a/b, a/b/c.
func Breadcrumbs(p string) []Breadcrumb {
	var segments []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}

	crumbs := make([]Breadcrumb, 0, len(segments))
	for i, name := range segments {
		crumbs = append(crumbs, Breadcrumb{
			Path: strings.Join(segments[:i+1], "/"),
			Name: name,
		})
	}
	return crumbs
}

// DevicePath returns the absolute device path a crumb points at
func (c Breadcrumb) DevicePath() string {
	return "/" + c.Path
}
