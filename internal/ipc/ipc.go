// Package ipc is the unix-socket control channel between caffi-ctl and
// the daemon. One JSON request, one JSON reply per connection.
package ipc

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
)

const SocketPath = "/tmp/caffi.sock"

type ControlMessage struct {
	Cmd string `json:"cmd"`
}

type ControlReply struct {
	OK     bool   `json:"ok"`
	Output string `json:"output,omitempty"`
}

// StartServer listens on the control socket and dispatches each command
// to the handler. The handler's output travels back to the ctl client.
func StartServer(handler func(ControlMessage) ControlReply) error {
	os.Remove(SocketPath)

	ln, err := net.Listen("unix", SocketPath)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				continue
			}
			go handleConn(conn, handler)
		}
	}()

	return nil
}

func handleConn(conn net.Conn, handler func(ControlMessage) ControlReply) {
	defer conn.Close()

	var msg ControlMessage
	if err := json.NewDecoder(conn).Decode(&msg); err != nil {
		return
	}

	reply := handler(msg)
	json.NewEncoder(conn).Encode(reply)
}

// SendCommand connects to the daemon socket, sends one command and
// returns its reply output.
func SendCommand(cmd string) (string, error) {
	conn, err := net.Dial("unix", SocketPath)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	if err := json.NewEncoder(conn).Encode(ControlMessage{Cmd: cmd}); err != nil {
		return "", err
	}

	var reply ControlReply
	if err := json.NewDecoder(conn).Decode(&reply); err != nil {
		return "", err
	}
	if !reply.OK {
		return "", fmt.Errorf("daemon: %s", reply.Output)
	}
	return reply.Output, nil
}
