package main

import (
	"fmt"
	"os"

	"github.com/starwell-project/voidvault/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
