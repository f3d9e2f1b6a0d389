// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the DevTinder backend.
//
// Every call is cookie-authenticated: Login stores the session cookie in the
// client's jar and later calls send it back. Responses are accepted either
// bare or wrapped in a {"data": ...} envelope since the backend uses both.
//
// # Errors
//
// Failures are *ClientError values. Compare with errors.Is against the
// sentinels:
//
//	if errors.Is(err, api.ErrUnauthorized) {
//	    // session gone: navigate to the landing view
//	}
//
// # Example
//
//	client := api.NewClientWithConfig(&api.ClientConfig{BaseURL: cfg.Server.APIURL})
//	if _, err := client.Login(ctx, model.Credentials{EmailID: email, Password: pw}); err != nil {
//	    return err
//	}
//	feed, err := client.Feed(ctx)
package api
