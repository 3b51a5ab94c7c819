package adb

import (
	"bufio"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// toybox/busybox `ls -la` line: perms links owner group size date time name
var listingLine = regexp.MustCompile(`^([\-dlcbps])[rwxsStT\-]{9}\S*\s+\d+\s+\S+\s+\S+\s+(\d+)\s+(\d{4}-\d{2}-\d{2} \d{2}:\d{2})\s(.+)$`)

const listingTimeLayout = "2006-01-02 15:04"

// parseListing turns `ls -la` output into FileInfo values
func parseListing(out string) []FileInfo {
	var files []FileInfo

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		m := listingLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		name := m[4]
		kind := m[1]
		if kind == "l" {
			if i := strings.Index(name, " -> "); i >= 0 {
				name = name[:i]
			}
		}
		if name == "." || name == ".." {
			continue
		}

		size, _ := strconv.ParseInt(m[2], 10, 64)
		modTime, _ := time.ParseInLocation(listingTimeLayout, m[3], time.Local)

		files = append(files, FileInfo{
			Name:    name,
			Size:    size,
			ModTime: modTime,
			IsFile:  kind == "-",
		})
	}

	return files
}

// parseDevices parses `adb devices -l`
func parseDevices(out string) []Device {
	var devices []Device

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "List of devices") || strings.HasPrefix(line, "*") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		dev := Device{Serial: fields[0], State: fields[1]}
		for _, f := range fields[2:] {
			k, v, ok := strings.Cut(f, ":")
			if !ok {
				continue
			}
			switch k {
			case "model":
				dev.Model = v
			case "product":
				dev.Product = v
			}
		}
		devices = append(devices, dev)
	}

	return devices
}

// parseSize reads the output of `stat -c %s`
func parseSize(out string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(out), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseDeviceIP extracts the source address from `ip route`
func parseDeviceIP(out string) string {
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		for i := 0; i+1 < len(fields); i++ {
			if fields[i] == "src" {
				return fields[i+1]
			}
		}
	}
	return ""
}

func localSize(path string) func() (int64, bool) {
	return func() (int64, bool) {
		info, err := os.Stat(path)
		if err != nil {
			return 0, false
		}
		return info.Size(), true
	}
}
