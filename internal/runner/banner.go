package runner

import (
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/netvis/pkg/version"
)

const banner = `
              __        _     
  ____  ___  / /__   __(_)____
 / __ \/ _ \/ __/ | / / / ___/
/ / / /  __/ /_ | |/ / (__  ) 
/_/ /_/\___/\__/ |___/_/____/ 
`

// showBanner is used to show the banner to the user
func showBanner() {
	gologger.Print().Msgf("%s\n", banner)
	gologger.Print().Msgf("\t\tnetvis %s\n\n", version.GetVersion())
}
