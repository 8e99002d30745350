package main

import (
	"fmt"
	"os"

	dotsctl "github.com/dotsctl/dotsctl/cmd/dotsctl"
	"github.com/dotsctl/dotsctl/pkg/style"
)

func main() {
	rootCmd := dotsctl.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// The commands silence cobra's own error printing, so this is
		// the single place errors reach the user.
		fmt.Fprintln(os.Stderr, style.NewTerminalRenderer().RenderError(err))
		os.Exit(1)
	}
}
