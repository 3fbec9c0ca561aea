// Package form implements the submit state machine shared by the login,
// register, signup, password reset and password update forms.
//
// A form holds draft field values. Submit runs client-side checks,
// sends one request (two for signup), applies the form's side effect on
// success and records field or general errors on failure:
//
//	Idle -> Submitting -> Idle   (success)
//	Idle -> Submitting -> Failed (field or general error)
//
// Forms never navigate themselves; the Result names the route to go to.
package form
