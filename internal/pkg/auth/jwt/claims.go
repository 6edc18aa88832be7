package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the structure of the JSON Web Token (JWT) claims issued at login/registration.
// The token names the account; the identity itself is re-read from the user store on verification.
type Payload struct {
	// StandardClaims embeds the necessary JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer). These are crucial for token validity checks.
	jwt.StandardClaims

	// UserID is the account identifier the token was issued for.
	UserID string `json:"userId"`

	// Email is the account email at issue time.
	Email string `json:"email"`
}
