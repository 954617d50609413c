package upstream

import "errors"

// The three failure modes a page has to tell apart: no reply at all, a
// reply that is not in the agreed envelope shape, and a reply whose
// envelope says the request failed.

// ErrUpstreamDown means the request never produced a response.
var ErrUpstreamDown = errors.New("server not responding")

// ErrMalformedReply means a response arrived but could not be decoded as
// the {success, message, ...} envelope.
var ErrMalformedReply = errors.New("malformed reply from server")

// ApplicationError carries the server's own failure message out of a
// success:false envelope.
type ApplicationError struct {
	Message string
}

func (e *ApplicationError) Error() string {
	if e.Message == "" {
		return "request failed"
	}
	return e.Message
}
