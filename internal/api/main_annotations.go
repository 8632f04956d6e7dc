// @title           joe-expenses API
// @version         1.0
// @description     Personal expense tracker. Authenticate by logging in; the session cookie carries the identity.
// @BasePath        /api
// @securityDefinitions.apikey SessionCookie
// @in              cookie
// @name            session
package api
