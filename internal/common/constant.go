package common

// AccessTokenCookieName and RefreshTokenCookieName are the cookie names the
// HTTP layer uses when it mirrors issued tokens into httpOnly cookies.
const (
	AccessTokenCookieName  = "accessToken"
	RefreshTokenCookieName = "refreshToken"
)
