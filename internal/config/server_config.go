package config

import "strings"

type ServerConfig interface {
	GetCallbackAddr() string
}

type Server struct {
	src *source
}

var _ ServerConfig = Server{}

const loopbackHost = "127.0.0.1"

// GetCallbackAddr is the listen address of the local redirect-callback server.
// A bare port binds to the loopback interface.
func (s Server) GetCallbackAddr() string {
	addr := s.src.get("CALLBACK_ADDR", loopbackHost+":8099")
	if !strings.Contains(addr, ":") {
		addr = loopbackHost + ":" + addr
	}
	return addr
}
