package main

import (
	// Zone names in DEFAULT_TZ must resolve on hosts without a zoneinfo database.
	_ "time/tzdata"

	"github.com/dschmit00/sports-calendar/internal/cli"
)

func main() {
	cli.Execute()
}
