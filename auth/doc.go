// Copyright (c) 2025 ARRNAV26.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing and bearer-token issuance.

Passwords are hashed with bcrypt:

	hash, err := auth.HashPassword(password)
	ok := auth.CheckPassword(hash, password)

Access tokens are HS256 JWTs whose subject is the numeric user id:

	token, err := auth.GenerateAccessToken(user.ID, user.Username, secret, 30*time.Minute)
	userID, err := auth.ValidateAccessToken(token, secret)

The signing secret comes from configuration (JWT_SECRET).
*/
package auth
