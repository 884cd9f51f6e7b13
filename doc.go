// Package safecomms provides a Go SDK for the SafeComms Content Moderation API.
//
// SafeComms moderates text and images on the server side. This SDK shapes requests, attaches your
// API key, sends them, and hands back whatever the service returned. It contains no moderation
// logic of its own.
//
// # Quick Start
//
//	import "github.com/safecomms/gosdk"
//
//	// Create a client
//	client, err := safecomms.New(safecomms.WithAPIKey("your-api-key"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Moderate some text
//	res, err := client.ModerateText(context.Background(), &safecomms.TextRequest{
//		Content: "Content to moderate",
//		PII:     true,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(res)
//
// # Operations
//
//   - ModerateText: moderate a piece of text
//   - ModerateImage: moderate an image given as a URL or base64 string
//   - ModerateImageFile: upload an image from any io.Reader and moderate it
//   - ModerateImagePath: same as ModerateImageFile, for a file on disk
//   - GetUsage: retrieve usage statistics for your account
//
// Each request type also has a builder, e.g. NewTextRequestBuilder().
//
// # Results
//
// The service does not commit to a fixed response schema, so every operation returns a *Result,
// which keeps the raw JSON and offers accessors (GetBool, GetNumber, GetString, AsMap) as well as
// Decode for your own types.
//
// # Error Handling
//
// Failures are never retried or hidden; the first error is returned. The error types are:
//
//   - *ConfigError: New was called with a missing API key or an invalid base URL
//   - *TransportError: the request could not be completed (DNS, connection, timeout, canceled)
//   - *APIError: the service answered with a non-2xx status; carries StatusCode and Body
//   - *DecodeError: the service answered 2xx but the body was not valid JSON
//
// Requests that fail local validation return an error wrapping ErrInvalidRequest.
//
//	res, err := client.GetUsage(ctx)
//	if err != nil {
//		var apiErr *safecomms.APIError
//		if errors.As(err, &apiErr) {
//			fmt.Printf("status %d: %s\n", apiErr.StatusCode, apiErr.Body)
//		}
//		if errors.Is(err, safecomms.ErrUnauthorized) {
//			// check your API key
//		}
//	}
//
// # Timeouts and Cancellation
//
// Every operation takes a context.Context; canceling it aborts the request, including an upload
// in progress. In addition, a per-request timeout of 30 seconds applies by default:
//
//	client, err := safecomms.New(
//		safecomms.WithAPIKey("your-api-key"),
//		safecomms.WithTimeout(60 * time.Second),
//	)
//
// # Deployments
//
// Use WithBaseURL to target another deployment and WithVariant(VariantTextOnly) for deployments
// that only offer text moderation and usage.
package safecomms
