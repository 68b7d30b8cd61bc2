package version

import (
	"fmt"

	"github.com/spf13/viper"
	"github.com/thrombe/kolekk/color"
	"github.com/thrombe/kolekk/constant"
	"github.com/thrombe/kolekk/icon"
	"github.com/thrombe/kolekk/key"
	"github.com/thrombe/kolekk/log"
	"github.com/thrombe/kolekk/style"
	"github.com/thrombe/kolekk/util"
)

// Notify prints a banner when a newer release than the running binary
// is published. Lookup failures are logged and otherwise ignored.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(icon.Get(icon.Progress) + " Looking for updates...")
	latest, err := Latest()
	erase()
	if err != nil {
		log.Warnf("update check: %s", err)
		return
	}

	if newer, err := Compare(latest, constant.Version); err != nil || newer <= 0 {
		return
	}

	fmt.Printf("\n%s %s %s %s\n%s\n\n",
		style.Fg(color.Green)("▇▇▇"),
		constant.Kolekk,
		style.Bold(latest),
		style.Faint("is out (you have "+constant.Version+")"),
		style.Faint(releaseTagURL+latest),
	)
}
