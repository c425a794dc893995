package version

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/torii-cli/torii/color"
	"github.com/torii-cli/torii/constant"
	"github.com/torii-cli/torii/icon"
	"github.com/torii-cli/torii/key"
	"github.com/torii-cli/torii/style"
	"github.com/torii-cli/torii/util"
)

// Notify displays a terminal alert if a more recent stable release is available.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking if new version is available...", icon.Get(icon.Progress)))
	version, err := Latest()
	erase()
	if err == nil {
		comp, err := Compare(version, constant.Version)
		if err == nil && comp <= 0 {
			return
		}
	}

	fmt.Printf(`
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(version),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint("https://github.com/torii-cli/torii/releases/tag/v"+version),
	)
}
