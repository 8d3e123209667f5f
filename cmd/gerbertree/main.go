package main

import (
	"os"

	"github.com/golang/glog"

	"github.com/newmatik/gerbtrace-sub000/cmd/gerbertree/cmd"
)

func main() {
	err := cmd.Execute()
	glog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
