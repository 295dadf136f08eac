// Package qrcode renders two-factor enrollment URIs as scannable QR code
// images. It is a purely presentational collaborator: the MFA engine
// produces otpauth:// URIs and this package turns them into PNGs (or
// base64 data URIs for direct HTML embedding) via skip2/go-qrcode.
//
// # Usage
//
//	setup, _ := svc.StartSetup(ctx, accountID, "alice@example.com")
//
//	img, err := qrcode.EnrollmentBase64Image(setup.URI, 256)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// <img src="{{img}}">
package qrcode
