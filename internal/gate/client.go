package gate

import (
	"fmt"
	"net"
	"strconv"
)

// Client identifies a requester by its TCP remote address. Sessions are
// keyed by Addr alone; license binding additionally constrains Port. The
// network-layer origin is the sole identity signal, so this must always be
// built from the connection's remote address, never from forwarding headers.
type Client struct {
	Addr string
	Port int
}

// String renders the "<address>:<port>" form used as the audit event title.
func (c Client) String() string {
	return net.JoinHostPort(c.Addr, strconv.Itoa(c.Port))
}

// ParseClient builds a Client from an http.Request RemoteAddr.
func ParseClient(remoteAddr string) (Client, error) {
	host, portStr, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return Client{}, fmt.Errorf("parse remote address %q: %w", remoteAddr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return Client{}, fmt.Errorf("parse remote port %q: %w", portStr, err)
	}
	return Client{Addr: host, Port: port}, nil
}
