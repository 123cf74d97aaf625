package main

import (
	"os"

	"github.com/jojocoffee/serenity/app"
	"github.com/jojocoffee/serenity/report"
)

func run(args []string) error {
	return app.Get().Run(args)
}

func main() {
	err := run(os.Args)
	if err != nil {
		report.Quit(err)
	}
}
