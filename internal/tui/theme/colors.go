package theme

// Terminal-compatible color constants
const (
	ColorWhite        = "#FFFFFF"
	ColorBrightBlack  = "#808080"
	ColorBrightBlue   = "#5C7CFA"
	ColorBrightCyan   = "#22B8CF"
	ColorBrightGreen  = "#51CF66"
	ColorBrightYellow = "#FFD43B"
	ColorBrightRed    = "#FF6B6B"

	// Entry kind colors
	ColorKindFolder       = "#FCC419"
	ColorKindPhoto        = "#74C0FC"
	ColorKindAudio        = "#DA77F2"
	ColorKindVideo        = "#FF8787"
	ColorKindDocument     = "#51CF66"
	ColorKindPresentation = "#FFD43B"
	ColorKindSpreadsheet  = "#69DB7C"
)

// Message levels, ordered like messaging.MessageType
const (
	levelInfo = iota
	levelSuccess
	levelWarning
	levelError
)

// GetKindColor returns the color for an entry kind name
func GetKindColor(kind string) string {
	switch kind {
	case "folder":
		return ColorKindFolder
	case "photo":
		return ColorKindPhoto
	case "audio":
		return ColorKindAudio
	case "video":
		return ColorKindVideo
	case "document":
		return ColorKindDocument
	case "presentation":
		return ColorKindPresentation
	case "spreadsheet":
		return ColorKindSpreadsheet
	default:
		return ColorWhite
	}
}

// GetKindIcon returns the icon shown next to an entry kind
func GetKindIcon(kind string) string {
	switch kind {
	case "folder":
		return "📁"
	case "photo":
		return "🖼️"
	case "audio":
		return "🎵"
	case "video":
		return "🎬"
	case "presentation":
		return "📊"
	case "spreadsheet":
		return "📈"
	default:
		return "📄"
	}
}

// GetMessageColor returns the color for a message level
func GetMessageColor(level int) string {
	switch level {
	case levelError:
		return ColorBrightRed
	case levelSuccess:
		return ColorBrightGreen
	case levelWarning:
		return ColorBrightYellow
	default:
		return ColorBrightCyan
	}
}

// GetMessageIcon returns the icon for a message level
func GetMessageIcon(level int) string {
	switch level {
	case levelError:
		return "❌"
	case levelSuccess:
		return "✅"
	case levelWarning:
		return "⚠️"
	default:
		return "ℹ️"
	}
}
