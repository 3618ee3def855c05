// Package gateway is the client's single point of contact with the auth,
// recipe and rating services.
//
// A Gateway bundles three sub-clients sharing one HTTP client and one
// TokenSource (normally a *session.Store):
//
//	gw, err := gateway.New(gateway.Config{
//		AuthBaseURL:   "http://localhost:8001",
//		RecipeBaseURL: "http://localhost:8002",
//		RatingBaseURL: "http://localhost:8003",
//		Timeout:       15 * time.Second,
//	}, store)
//
//	tok, err := gw.Auth.Login(ctx, "alice", "secret") // stores tok.AccessToken
//	recipes, err := gw.Recipes.List(ctx)
//
// Every operation is a single attempt. Mutations read the token at call time
// and send it as "Authorization: Bearer <token>"; without a token the
// request is still sent and the service decides.
//
// Failures are returned as *Error, which matches the internal/common
// sentinels with errors.Is and exposes its category through Kind.
package gateway
