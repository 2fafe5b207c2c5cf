// Package protocol implements the framed JSON bridge spoken over
// stdin/stdout with browser extensions and other host clients.
//
// Every message, in both directions, is a 4-byte little-endian length
// prefix followed by a JSON document. Commands carry a "type" field;
// keystrokes carry only "charCode". Every inbound frame gets exactly one
// response frame, except FINALIZE, which terminates the conversation
// silently.
package protocol
