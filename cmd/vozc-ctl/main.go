package main

import (
	"fmt"
	"os"

	cli "github.com/spf13/pflag"

	"vozc/internal/ipc"
)

func main() {
	socket := cli.StringP("socket", "s", ipc.DefaultSocketPath(), "Control socket path")
	cli.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: vozc-ctl [--socket PATH] [%s|%s]\n", ipc.CmdTrigger, ipc.CmdStop)
		cli.PrintDefaults()
	}
	cli.Parse()

	cmd := ipc.CmdTrigger
	if cli.NArg() > 0 {
		cmd = cli.Arg(0)
	}
	if cmd != ipc.CmdTrigger && cmd != ipc.CmdStop {
		cli.Usage()
		os.Exit(2)
	}

	if err := ipc.SendCommand(*socket, cmd); err != nil {
		fmt.Println("vozc not running:", err)
		os.Exit(1)
	}
}
