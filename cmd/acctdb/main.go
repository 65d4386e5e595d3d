package main

import (
	"os"

	"github.com/G-Research/acctdb/cmd/acctdb/cmd"
	"github.com/G-Research/acctdb/internal/common"
)

func main() {
	common.ConfigureCommandLineLogging()
	os.Exit(cmd.Execute())
}
