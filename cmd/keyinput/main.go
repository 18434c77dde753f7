package main

import (
	"context"
	"fmt"
	"os"

	"github.com/peco/keyinput"
	"github.com/peco/keyinput/internal/util"
)

func main() {
	cli := keyinput.NewCLI()
	if err := cli.Run(context.Background(), os.Args[1:]); err != nil {
		if util.IsIgnorableError(err) {
			os.Exit(0)
		}

		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		st, _ := util.GetExitStatus(err)
		os.Exit(st)
	}
}
