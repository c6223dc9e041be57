// Package recipientlist stores named recipient lists that can be loaded into
// a dispatch request.
//
// Addresses in a list are trimmed and deduplicated on every write, keeping
// the first occurrence. Lists are returned newest first. Addresses are not
// validated here; malformed ones are reported as invalid by the dispatcher
// when the list is sent.
package recipientlist
