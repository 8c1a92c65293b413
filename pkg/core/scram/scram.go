// Copyright (c) 2024 The wikiweb authors
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram exports the expected interfaces for Salted Challenge
// Response Authentication Mechanism (SCRAM). For the corresponding
// implementation, check the adapter layer.
//
// The scram-sha-1 and scram-sha-256 mechanisms as defined in RFC 7677
// and RFC 5802 cover a complete challenge and response conversation
// between a client and a server. The server and client side SCRAM
// conversations are managed by the PostgreSQL server and its driver in
// the adapter layer though. In the use cases layer, it is only
// required to generate a hash string with the standard format (having
// a password, salt, and iteration count), so it can be passed to a
// PostgreSQL server in a CREATE or ALTER ROLE statement.
//
// See the Hasher interface for the expected SCRAM implementation
// features. This interface is used by the initdbuc package in order
// to set the database role passwords without sending the plaintext
// passwords in the relevant DDL queries (so their possible logging is
// not a threat). It is also used by the database preparation test
// cases.
package scram

// Hasher represents the expectations from a SCRAM hasher implementation
// which for a specific underlying hash function (e.g., SHA1 or SHA256)
// computes the storedKey and serverKey values whenever its Hash method
// is called with the relevant pass, salt, and iters arguments,
// representing password, random salt value, and hashing iterations
// count. Note that although username and authorization identifier are
// required in a SCRAM protocol, but they do not affect the storedKey
// and serverKey and so are not asked by the Hasher interface. A PBKDF2
// algorithm is computed in order to slow down a dictionary attack as
// detailed in RFC 5802.
type Hasher interface {
	// Hash computes a hash string following the standard scram hash
	// format, so it can be stored and used later for authentication.
	//
	// The pass argument must be non-empty. The user and authzID params
	// are not asked because they are not used in the hash output. The
	// given password will be normalized according to the SASLprep
	// profile (defined by RFC 4013) of the stringprep algorithm (which
	// is defined by RFC 3454) and any failure in that normalization
	// returns an error.
	//
	// The salt must contain a base64 encoding of the desired salt
	// bytes, otherwise, if an empty value is passed, a random salt will
	// be generated and used instead.
	// The iters must be at least equal to 4096. However, the RFC 7677
	// recommends to use 15000 or more.
	//
	// In absence of errors, a hashed string will be returned which
	// conforms to the following format.
	//
	//	SCRAM-{SHA-X}${iters}:{b64-salt}${b64-storedKey}:{b64-serverKey}
	//
	// This string (consisting only of ASCII printable letters) can
	// be safely passed to an ALTER or CREATE ROLE query in order to
	// update or create a database role with the desired password as
	// accepted by the PostgreSQL DBMS without risking to send a
	// plaintext password.
	Hash(pass, salt string, iters int) (string, error)
}
