// Package adminsdk is the Go client for the admin authentication service.
//
// Unauthenticated calls (Bootstrap, Login, health checks) hang off Client.
// A successful Login returns a Session carrying the opaque bearer token,
// which exposes the 2FA step and every protected operation.
//
//	client := adminsdk.NewClient("http://localhost:8080")
//	session, resp, err := client.Login(ctx, "admin@example.com", password)
//	if err != nil { ... }
//	if resp.TOTPSetup != nil {
//		// first login: show resp.TOTPSetup.OTPAuthURL as a QR code
//	}
//	if err := session.VerifyTOTP(ctx, code); err != nil { ... }
//	me, err := session.Me(ctx)
package adminsdk
