/*
Package vaultsdk is a Go client for the credvault service, and the home of the
request, response and error types the server writes.

# Client vs Session

Client performs the unauthenticated operations: registering an administrator
and logging in. Authenticate logs in and returns a Session, which carries the
bearer token for the account operations:

	client := vaultsdk.NewClient("http://localhost:8080")

	_, err := client.RegisterAdministrator(ctx, vaultsdk.RegisterAdministratorRequest{
		Name:     "Alice",
		Username: "alice",
		Password: "correct horse",
	})

	session, err := client.Authenticate(ctx, "alice", "correct horse")

	_, err = session.SaveAccount(ctx, vaultsdk.AccountRequest{
		Appname:  "mail",
		Username: "alice@example.com",
		Password: "hunter2",
	})

	accounts, err := session.ListAccounts(ctx)

Sessions do not refresh. Once the token expires every Session method returns
ErrSessionExpired and the caller logs in again.

# Error Handling

Failed calls return *APIError, or *ValidationError when the request body was
rejected by the server's schema. APIError values compare by status and code,
so the predefined errors work with errors.Is:

	_, err := session.SaveAccount(ctx, req)
	switch {
	case errors.Is(err, vaultsdk.ErrVaultFull):
		// 403 capacity_exceeded
	case errors.Is(err, vaultsdk.ErrAppnameTaken):
		// 409 conflict
	}
*/
package vaultsdk
