package main

import (
	"fmt"
	"os"

	"caffi/internal/ipc"
)

func main() {
	cmd := "stats"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	out, err := ipc.SendCommand(cmd)
	if err != nil {
		fmt.Println("caffi-daemon not running:", err)
		os.Exit(1)
	}
	fmt.Println(out)
}
