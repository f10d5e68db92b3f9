// Package advisor requests short charging advice from a language model.
//
// A request moves the Advisor from idle (or a settled state) to pending; it
// settles as resolved or failed when the remote call returns. Only one
// request may be pending at a time. Failures never surface as errors to the
// user: the Service always produces a displayable message.
package advisor
