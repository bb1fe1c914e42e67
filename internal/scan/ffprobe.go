package scan

import (
	"encoding/json"
	"os/exec"
	"strconv"
	"time"

	"github.com/franz/record-collection/internal/util"
)

// ffprobeInfo is the slice of ffprobe's JSON output we care about: the tag
// library does not expose durations, ffprobe does
type ffprobeInfo struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// CheckFFprobeAvailable checks if ffprobe is available in PATH
func CheckFFprobeAvailable() bool {
	_, err := exec.LookPath("ffprobe")
	return err == nil
}

// ProbeDuration reads a file's duration via ffprobe. Returns 0 when ffprobe
// is missing or the file yields no duration.
func ProbeDuration(path string) time.Duration {
	if !CheckFFprobeAvailable() {
		return 0
	}

	cmd := exec.Command("ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path)

	output, err := cmd.Output()
	if err != nil {
		util.DebugLog("ffprobe failed for %s: %v", path, err)
		return 0
	}

	var info ffprobeInfo
	if err := json.Unmarshal(output, &info); err != nil {
		util.DebugLog("ffprobe output unparseable for %s: %v", path, err)
		return 0
	}

	seconds, err := strconv.ParseFloat(info.Format.Duration, 64)
	if err != nil || seconds <= 0 {
		return 0
	}

	return time.Duration(seconds * float64(time.Second))
}
