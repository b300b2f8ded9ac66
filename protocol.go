package officepool

import (
	"fmt"
	"strconv"
	"strings"
)

// ConnectionProtocol selects how workers are reached.
// The zero value is not a valid protocol.
type ConnectionProtocol int

const (
	// ProtocolSocket binds each worker to a TCP port on 127.0.0.1.
	ProtocolSocket ConnectionProtocol = iota + 1
	// ProtocolPipe binds each worker to a named pipe.
	ProtocolPipe
)

// String returns the protocol name used in accept strings and config files.
func (p ConnectionProtocol) String() string {
	switch p {
	case ProtocolSocket:
		return "socket"
	case ProtocolPipe:
		return "pipe"
	default:
		return "ConnectionProtocol(" + strconv.Itoa(int(p)) + ")"
	}
}

// Valid reports whether p is a known protocol.
func (p ConnectionProtocol) Valid() bool {
	return p == ProtocolSocket || p == ProtocolPipe
}

// ParseConnectionProtocol accepts "socket" or "pipe" (also "named-pipe"),
// case-insensitively.
func ParseConnectionProtocol(s string) (ConnectionProtocol, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "socket", "tcp":
		return ProtocolSocket, nil
	case "pipe", "named-pipe", "namedpipe":
		return ProtocolPipe, nil
	default:
		return 0, invalidArgument("connectionProtocol", fmt.Sprintf("%q must be socket or pipe", s))
	}
}

// localHost is the only interface workers listen on.
const localHost = "127.0.0.1"

// Endpoint identifies how to reach one worker.
type Endpoint struct {
	Protocol ConnectionProtocol
	Port     int    // set when Protocol is ProtocolSocket
	PipeName string // set when Protocol is ProtocolPipe
}

// SocketEndpoint returns a TCP endpoint.
func SocketEndpoint(port int) Endpoint {
	return Endpoint{Protocol: ProtocolSocket, Port: port}
}

// PipeEndpoint returns a named-pipe endpoint.
func PipeEndpoint(name string) Endpoint {
	return Endpoint{Protocol: ProtocolPipe, PipeName: name}
}

// Param returns the raw per-worker parameter: the port or the pipe name.
func (e Endpoint) Param() string {
	if e.Protocol == ProtocolPipe {
		return e.PipeName
	}
	return strconv.Itoa(e.Port)
}

// AcceptString returns the connection part of the office -accept argument,
// e.g. "socket,host=127.0.0.1,port=2002" or "pipe,name=office".
func (e Endpoint) AcceptString() string {
	if e.Protocol == ProtocolPipe {
		return "pipe,name=" + e.PipeName
	}
	return "socket,host=" + localHost + ",port=" + strconv.Itoa(e.Port)
}

// ConnectString returns the UNO URL a client dials to reach the worker.
func (e Endpoint) ConnectString() string {
	accept := e.AcceptString()
	if e.Protocol == ProtocolSocket {
		accept += ",tcpNoDelay=1"
	}
	return "uno:" + accept + ";urp;StarOffice.ComponentContext"
}

// String implements fmt.Stringer, e.g. "socket:2002".
func (e Endpoint) String() string {
	return e.Protocol.String() + ":" + e.Param()
}
