package smtp

import "io"

// Client is the subset of *smtp.Client the sender uses. Having an
// interface here keeps the email path testable without a live server.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface hands out authenticated SMTP clients.
type TransportInterface interface {
	Connect() (Client, error)
}
