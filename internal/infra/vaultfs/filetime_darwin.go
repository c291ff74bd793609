//go:build darwin

package vaultfs

import (
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// setFileBirthTimeLayout is the date format SetFile -d accepts.
const setFileBirthTimeLayout = "01/02/2006 15:04:05"

// setFileCreationTime rewrites the HFS/APFS birth time, which Chtimes cannot
// reach. Missing Xcode command line tools are not an error.
func setFileCreationTime(path string, created time.Time) error {
	if created.IsZero() {
		return nil
	}
	tool, err := exec.LookPath("SetFile")
	if err != nil {
		return nil
	}
	out, err := exec.Command(tool, "-d", created.Local().Format(setFileBirthTimeLayout), path).CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}
